// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package shallow

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/danwakefield/fnmatch"
	"github.com/gitshallow/gitshallow/internal/common/set"
	"github.com/gitshallow/gitshallow/internal/display"
	"github.com/gitshallow/gitshallow/internal/gitinterface"
)

var (
	// ErrNoRevisions indicates that no revisions were specified for
	// truncation.
	ErrNoRevisions = errors.New("no revisions specified for truncation")

	// ErrNoKeepRefs indicates that the keep-set resolved to nothing, which
	// would leave no reference anchoring the kept history.
	ErrNoKeepRefs = errors.New("no references remain to anchor kept history")
)

// Options configures a truncation run.
type Options struct {
	// Revisions holds the revision expressions whose history is discarded.
	Revisions []string

	// KeepRefs holds references, by any name rev-parse accepts, whose
	// history is preserved. KeepPatterns holds fnmatch patterns matched
	// against fully qualified reference names; matching references join the
	// keep-set. When both are empty, every commit reference is kept.
	KeepRefs     []string
	KeepPatterns []string

	// Shrink reclaims the storage occupied by the truncated history.
	Shrink bool

	// DryRun reports what would change without modifying the repository.
	DryRun bool

	// PruneExpire is the loose object expiry passed to git prune when
	// shrinking, "now" when empty.
	PruneExpire string

	// Output receives user-facing progress. Nil discards it.
	Output io.Writer
}

// Truncate makes the history of the specified revisions invisible and
// unreferenced: boundaries are recorded where that history intersects the
// keep-set's history, the truncation is verified, references outside the
// keep-set are removed, and, when requested, the orphaned storage is
// reclaimed.
func Truncate(repo *gitinterface.Repository, opts *Options) error {
	if len(opts.Revisions) == 0 {
		return ErrNoRevisions
	}

	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	pruneExpire := opts.PruneExpire
	if pruneExpire == "" {
		pruneExpire = "now"
	}

	if err := recoverStaleShallowState(repo); err != nil {
		return err
	}

	keepRefs, err := resolveKeepSet(repo, opts)
	if err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("Keeping history reachable from %d references", len(keepRefs)))

	revisionIDs, err := repo.ResolveRevisions(opts.Revisions)
	if err != nil {
		return err
	}

	// Capture the full ancestry of the truncated revisions before any
	// boundary is recorded; the verifier needs the pre-truncation view.
	revisionExpressions := make([]string, 0, len(revisionIDs))
	for _, revisionID := range revisionIDs {
		revisionExpressions = append(revisionExpressions, revisionID.String())
	}
	preTruncationIDs, err := repo.ListCommitsReachableFrom(revisionExpressions...)
	if err != nil {
		return err
	}

	refsToDelete, err := computeRefsToDelete(repo, keepRefs)
	if err != nil {
		return err
	}

	iter := NewBoundaryIter(repo, revisionIDs, keepRefs)

	if opts.DryRun {
		if err := iter.ForEach(func(boundaryID gitinterface.Hash) error {
			fmt.Fprintf(output, "Would record shallow boundary %s\n", display.ObjectID(boundaryID.String()))
			return nil
		}); err != nil {
			return err
		}

		for _, refName := range refsToDelete {
			fmt.Fprintf(output, "Would remove reference %s\n", display.RefName(refName))
		}

		return nil
	}

	boundaryCount := 0
	if err := iter.ForEach(func(boundaryID gitinterface.Hash) error {
		fmt.Fprintf(output, "Recording shallow boundary %s\n", display.ObjectID(boundaryID.String()))
		boundaryCount++
		return repo.RecordShallowBoundary(boundaryID)
	}); err != nil {
		return err
	}

	if err := VerifyTruncation(repo, preTruncationIDs, keepRefs); err != nil {
		return err
	}

	if len(refsToDelete) > 0 {
		slog.Debug(fmt.Sprintf("Removing %d references...", len(refsToDelete)))
		if err := repo.DeleteReferences(refsToDelete); err != nil {
			return err
		}
	}

	fmt.Fprintln(output, display.Success(fmt.Sprintf("Recorded %d shallow boundaries, removed %d references", boundaryCount, len(refsToDelete))))

	if opts.Shrink {
		if err := Reclaim(repo, pruneExpire); err != nil {
			return err
		}

		unreachable, err := repo.ListUnreachableObjects()
		if err != nil {
			return err
		}
		for _, line := range unreachable {
			fmt.Fprintln(output, line)
		}
	}

	return nil
}

// recoverStaleShallowState restores full history when a previous run left a
// shallow record behind. Fetching from the default remote is attempted
// first; without a usable remote the record alone is dropped, which restores
// full visibility when the truncated objects are still present locally.
func recoverStaleShallowState(repo *gitinterface.Repository) error {
	if !repo.HasShallowRecord() {
		return nil
	}

	slog.Debug("Shallow record found, unshallowing...")

	if err := repo.FetchUnshallow(); err != nil {
		slog.Debug(fmt.Sprintf("Unable to fetch missing history: %v", err))
		return repo.RemoveShallowRecord()
	}

	return nil
}

// resolveKeepSet maps the configured references and patterns to the sorted,
// fully qualified set of references whose history is preserved.
func resolveKeepSet(repo *gitinterface.Repository, opts *Options) ([]string, error) {
	keepRefs := set.NewSet[string]()

	for _, refName := range opts.KeepRefs {
		fullName, err := repo.SymbolicFullName(refName)
		if err != nil {
			return nil, err
		}
		keepRefs.Add(fullName)
	}

	if len(opts.KeepPatterns) > 0 {
		allRefs, err := repo.ListReferences(gitinterface.CommitReferencesFilter)
		if err != nil {
			return nil, err
		}

		for _, refName := range allRefs {
			for _, pattern := range opts.KeepPatterns {
				if fnmatch.Match(pattern, refName, 0) {
					keepRefs.Add(refName)
					break
				}
			}
		}
	}

	if len(opts.KeepRefs) == 0 && len(opts.KeepPatterns) == 0 {
		allRefs, err := repo.ListReferences(gitinterface.CommitReferencesFilter)
		if err != nil {
			return nil, err
		}

		for _, refName := range allRefs {
			keepRefs.Add(refName)
		}
	}

	// A remote's symbolic HEAD duplicates the branch it points to.
	for _, refName := range keepRefs.Contents() {
		if strings.HasSuffix(refName, "/HEAD") {
			keepRefs.Remove(refName)
		}
	}

	if keepRefs.Len() == 0 {
		return nil, ErrNoKeepRefs
	}

	sortedRefs := keepRefs.Contents()
	sort.Strings(sortedRefs)

	return sortedRefs, nil
}

// computeRefsToDelete returns every reference outside the keep-set, sorted.
func computeRefsToDelete(repo *gitinterface.Repository, keepRefs []string) ([]string, error) {
	allRefs, err := repo.ListReferences(nil)
	if err != nil {
		return nil, err
	}

	refNames := set.NewSetFromItems(allRefs...).Minus(set.NewSetFromItems(keepRefs...)).Contents()
	sort.Strings(refNames)

	return refNames, nil
}
