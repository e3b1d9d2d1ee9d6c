// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
)

// FetchUnshallow converts a shallow repository into a complete one by
// fetching all missing history from the repository's default remote. Git
// removes the shallow record on success.
func (r *Repository) FetchUnshallow() error {
	if _, err := r.executor("fetch", "--unshallow").executeString(); err != nil {
		return fmt.Errorf("unable to unshallow repository: %w", err)
	}

	return nil
}
