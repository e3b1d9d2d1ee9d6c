// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"bytes"
	"fmt"
)

// EmptyTree returns the ID of the empty tree object, writing it to the object
// store if it is not already present. Truncation never inspects trees, so the
// empty tree suffices for every commit created by this module.
func (r *Repository) EmptyTree() (Hash, error) {
	output, err := r.executor("mktree").withStdIn(&bytes.Buffer{}).executeString()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to write empty tree: %w", err)
	}

	treeID, err := NewHash(output)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid tree ID: %w", err)
	}

	return treeID, nil
}
