// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package shallow

import (
	"testing"

	"github.com/gitshallow/gitshallow/internal/gitinterface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectBoundaries(t *testing.T, iter *BoundaryIter) []gitinterface.Hash {
	t.Helper()

	boundaryIDs := []gitinterface.Hash{}
	err := iter.ForEach(func(boundaryID gitinterface.Hash) error {
		boundaryIDs = append(boundaryIDs, boundaryID)
		return nil
	})
	require.Nil(t, err)

	return boundaryIDs
}

func TestBoundaryIterLinearHistory(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	// main points at the base commit, the truncated revision sits above it
	baseCommitID, err := repo.Commit(treeID, refName, "Base commit\n")
	require.Nil(t, err)
	revisionID, err := repo.CommitUsingSpecificParents(treeID, "Tip commit\n", baseCommitID)
	require.Nil(t, err)

	iter := NewBoundaryIter(repo, []gitinterface.Hash{revisionID}, []string{refName})
	boundaryIDs := collectBoundaries(t, iter)

	assert.Equal(t, []gitinterface.Hash{revisionID, baseCommitID}, boundaryIDs)
}

func TestBoundaryIterRootRevision(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	rootCommitID, err := repo.Commit(treeID, refName, "Root commit\n")
	require.Nil(t, err)

	iter := NewBoundaryIter(repo, []gitinterface.Hash{rootCommitID}, []string{refName})
	boundaryIDs := collectBoundaries(t, iter)

	assert.Equal(t, []gitinterface.Hash{rootCommitID}, boundaryIDs)
}

func TestBoundaryIterDisjointHistories(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	_, err = repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	_, err = repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)

	// The truncated revision shares no history with main
	orphanBaseID, err := repo.CommitUsingSpecificParents(treeID, "Orphan base\n")
	require.Nil(t, err)
	orphanTipID, err := repo.CommitUsingSpecificParents(treeID, "Orphan tip\n", orphanBaseID)
	require.Nil(t, err)

	iter := NewBoundaryIter(repo, []gitinterface.Hash{orphanTipID}, []string{refName})
	boundaryIDs := collectBoundaries(t, iter)

	// The revision itself is the only boundary, its parent contributes
	// nothing
	assert.Equal(t, []gitinterface.Hash{orphanTipID}, boundaryIDs)
}

func TestBoundaryIterDuplicateRevisions(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	baseCommitID, err := repo.Commit(treeID, refName, "Base commit\n")
	require.Nil(t, err)
	revisionID, err := repo.CommitUsingSpecificParents(treeID, "Tip commit\n", baseCommitID)
	require.Nil(t, err)

	iter := NewBoundaryIter(repo, []gitinterface.Hash{revisionID, revisionID}, []string{refName})
	boundaryIDs := collectBoundaries(t, iter)

	assert.Equal(t, []gitinterface.Hash{revisionID, baseCommitID}, boundaryIDs)
}

func TestBoundaryIterMergeHistory(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	rootCommitID, err := repo.CommitUsingSpecificParents(treeID, "Root commit\n")
	require.Nil(t, err)
	branchAID, err := repo.CommitUsingSpecificParents(treeID, "Branch A\n", rootCommitID)
	require.Nil(t, err)
	branchBID, err := repo.CommitUsingSpecificParents(treeID, "Branch B\n", rootCommitID)
	require.Nil(t, err)
	mergeCommitID, err := repo.CommitUsingSpecificParents(treeID, "Merge branches\n", branchAID, branchBID)
	require.Nil(t, err)
	if err := repo.SetReference(refName, mergeCommitID); err != nil {
		t.Fatal(err)
	}

	revisionID, err := repo.CommitUsingSpecificParents(treeID, "Tip above merge\n", mergeCommitID)
	require.Nil(t, err)

	iter := NewBoundaryIter(repo, []gitinterface.Hash{revisionID}, []string{refName})
	boundaryIDs := collectBoundaries(t, iter)

	// Every commit of the kept history intersects the revision's ancestry
	assert.ElementsMatch(t, []gitinterface.Hash{revisionID, mergeCommitID, branchAID, branchBID, rootCommitID}, boundaryIDs)
	assert.Equal(t, revisionID, boundaryIDs[0])
}

func TestBoundaryIterRepeatedDiscovery(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	baseCommitID, err := repo.Commit(treeID, refName, "Base commit\n")
	require.Nil(t, err)
	revisionID, err := repo.CommitUsingSpecificParents(treeID, "Tip commit\n", baseCommitID)
	require.Nil(t, err)

	firstRun := collectBoundaries(t, NewBoundaryIter(repo, []gitinterface.Hash{revisionID}, []string{refName}))
	secondRun := collectBoundaries(t, NewBoundaryIter(repo, []gitinterface.Hash{revisionID}, []string{refName}))

	assert.Equal(t, firstRun, secondRun)
}
