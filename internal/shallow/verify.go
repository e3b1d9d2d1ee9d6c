// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package shallow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gitshallow/gitshallow/internal/common/set"
	"github.com/gitshallow/gitshallow/internal/gitinterface"
)

// ErrVerificationFailed indicates that history beyond a recorded boundary is
// still accessible from a kept reference.
var ErrVerificationFailed = errors.New("truncated history remains accessible")

// VerifyTruncation confirms that no kept reference can traverse past a
// recorded boundary. preTruncationIDs holds every commit that was reachable
// from the truncated revisions before boundaries were recorded; the
// reachability of keepRefs is computed fresh here and therefore honors the
// recorded boundaries. Every commit in both sets must now report no parents.
func VerifyTruncation(repo *gitinterface.Repository, preTruncationIDs []gitinterface.Hash, keepRefs []string) error {
	refReachableIDs, err := repo.ListCommitsReachableFrom(keepRefs...)
	if err != nil {
		return err
	}

	preTruncationSet := set.NewSet[string]()
	for _, commitID := range preTruncationIDs {
		preTruncationSet.Add(commitID.String())
	}

	refReachableSet := set.NewSet[string]()
	for _, commitID := range refReachableIDs {
		refReachableSet.Add(commitID.String())
	}

	for _, remaining := range preTruncationSet.Intersection(refReachableSet).Contents() {
		slog.Debug(fmt.Sprintf("Verifying %s reports no parents...", remaining))

		commitID, err := gitinterface.NewHash(remaining)
		if err != nil {
			return err
		}

		parentIDs, err := repo.GetCommitParentIDs(commitID)
		if err != nil {
			return err
		}

		if len(parentIDs) > 0 {
			return fmt.Errorf("%w: commit '%s' reports %d parents", ErrVerificationFailed, remaining, len(parentIDs))
		}
	}

	return nil
}
