// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoCommonAncestor indicates that the histories of the inspected commits
// do not intersect.
var ErrNoCommonAncestor = errors.New("no common ancestor exists for the specified commits")

// GetCommonAncestor returns the best common ancestor of the two specified
// commits. Git exits non-zero when the histories are disjoint, so every
// failed invocation is reported as ErrNoCommonAncestor.
func (r *Repository) GetCommonAncestor(commitAID, commitBID Hash) (Hash, error) {
	output, err := r.executor("merge-base", commitAID.String(), commitBID.String()).executeString()
	if err != nil {
		return ZeroHash, ErrNoCommonAncestor
	}

	commonAncestorID, err := NewHash(output)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid common ancestor ID '%s': %w", output, err)
	}

	return commonAncestorID, nil
}

// GetIndependentCommits reduces the specified revisions, which may be object
// IDs or reference names, to the commits that are not reachable from any
// other revision in the set. The revisions are sorted before invocation so a
// given set always produces the same command.
func (r *Repository) GetIndependentCommits(revisions []string) ([]Hash, error) {
	sortedRevisions := make([]string, len(revisions))
	copy(sortedRevisions, revisions)
	sort.Strings(sortedRevisions)

	args := append([]string{"merge-base", "--independent"}, sortedRevisions...)
	output, err := r.executor(args...).executeString()
	if err != nil {
		return nil, fmt.Errorf("unable to identify independent commits: %w", err)
	}

	lines := strings.Split(output, "\n")
	commitIDs := make([]Hash, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		commitID, err := NewHash(line)
		if err != nil {
			return nil, fmt.Errorf("invalid independent commit ID '%s': %w", line, err)
		}
		commitIDs = append(commitIDs, commitID)
	}

	return commitIDs, nil
}
