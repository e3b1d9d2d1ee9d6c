// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

// Package shallow implements history truncation. It discovers the commits at
// which truncated history intersects kept history, records them as shallow
// boundaries, verifies that no kept reference can traverse past a boundary,
// restricts the reference namespace to a keep-set, and optionally reclaims
// the storage the truncated history occupied.
package shallow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gitshallow/gitshallow/internal/common/set"
	"github.com/gitshallow/gitshallow/internal/gitinterface"
)

// BoundaryIter walks the ancestry of the revisions being truncated and
// produces every commit where that ancestry intersects the history reachable
// from the kept references. Each produced commit is a shallow boundary.
//
// The walk starts at the revisions themselves and follows parent edges. For
// each parent of a produced commit, the common ancestor with every
// independent tip of the keep-set is enqueued; parents sharing no history
// with any tip contribute nothing. Runs against the same repository state
// produce the same boundaries.
//
// The iterator consumes its work queue and must be drained at most once.
type BoundaryIter struct {
	repo     *gitinterface.Repository
	keepRefs []string
	queue    []gitinterface.Hash
	seen     *set.Set[string]
}

// NewBoundaryIter seeds the work queue with the resolved revision set.
func NewBoundaryIter(repo *gitinterface.Repository, revisionIDs []gitinterface.Hash, keepRefs []string) *BoundaryIter {
	queue := make([]gitinterface.Hash, len(revisionIDs))
	copy(queue, revisionIDs)

	return &BoundaryIter{
		repo:     repo,
		keepRefs: keepRefs,
		queue:    queue,
		seen:     set.NewSet[string](),
	}
}

// ForEach invokes fn for each discovered boundary, in discovery order. An
// error from fn aborts the walk and is returned.
func (it *BoundaryIter) ForEach(fn func(gitinterface.Hash) error) error {
	for len(it.queue) > 0 {
		commitID := it.queue[0]
		it.queue = it.queue[1:]

		if it.seen.Has(commitID.String()) {
			continue
		}

		parentIDs, err := it.repo.GetCommitParentIDs(commitID)
		if err != nil {
			return err
		}

		if err := fn(commitID); err != nil {
			return err
		}
		it.seen.Add(commitID.String())

		if len(parentIDs) == 0 {
			continue
		}

		independentTipIDs, err := it.repo.GetIndependentCommits(it.keepRefs)
		if err != nil {
			return err
		}

		for _, parentID := range parentIDs {
			for _, tipID := range independentTipIDs {
				slog.Debug(fmt.Sprintf("Checking common ancestor of %s and %s...", parentID.String(), tipID.String()))

				ancestorID, err := it.repo.GetCommonAncestor(parentID, tipID)
				if err != nil {
					if errors.Is(err, gitinterface.ErrNoCommonAncestor) {
						continue
					}
					return err
				}

				it.queue = append(it.queue, ancestorID)
			}
		}
	}

	return nil
}
