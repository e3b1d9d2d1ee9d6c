// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package shallow

import (
	"bytes"
	"testing"

	"github.com/gitshallow/gitshallow/internal/gitinterface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateLinearHistory(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	initialCommitID, err := repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	secondCommitID, err := repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)
	thirdCommitID, err := repo.Commit(treeID, refName, "Third commit\n")
	require.Nil(t, err)

	output := &bytes.Buffer{}
	err = Truncate(repo, &Options{Revisions: []string{refName}, Output: output})
	assert.Nil(t, err)

	// Truncating at the tip severs the entire history
	boundaryIDs, err := repo.ReadShallowBoundaries()
	require.Nil(t, err)
	assert.ElementsMatch(t, []gitinterface.Hash{initialCommitID, secondCommitID, thirdCommitID}, boundaryIDs)

	parentIDs, err := repo.GetCommitParentIDs(thirdCommitID)
	require.Nil(t, err)
	assert.Empty(t, parentIDs)

	// No reference falls outside the keep set
	refNames, err := repo.ListReferences(nil)
	require.Nil(t, err)
	assert.Equal(t, []string{refName}, refNames)

	assert.Contains(t, output.String(), "Recording shallow boundary")
	assert.Contains(t, output.String(), "Recorded 3 shallow boundaries, removed 0 references")
}

func TestTruncateFiltersReferences(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	initialCommitID, err := repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	secondCommitID, err := repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)

	featureCommitID, err := repo.CommitUsingSpecificParents(treeID, "Feature commit\n", initialCommitID)
	require.Nil(t, err)
	err = repo.SetReference("refs/heads/feature", featureCommitID)
	require.Nil(t, err)

	_, err = repo.CreateAnnotatedTag(initialCommitID, "v1", "Version 1\n")
	require.Nil(t, err)

	output := &bytes.Buffer{}
	err = Truncate(repo, &Options{
		Revisions: []string{"refs/heads/feature"},
		KeepRefs:  []string{"main"},
		Output:    output,
	})
	assert.Nil(t, err)

	boundaryIDs, err := repo.ReadShallowBoundaries()
	require.Nil(t, err)
	assert.ElementsMatch(t, []gitinterface.Hash{featureCommitID, initialCommitID}, boundaryIDs)

	// Only the kept branch survives the filter
	refNames, err := repo.ListReferences(nil)
	require.Nil(t, err)
	assert.Equal(t, []string{refName}, refNames)

	_, err = repo.ResolveRevision("refs/tags/v1")
	assert.ErrorIs(t, err, gitinterface.ErrRevisionNotFound)

	// The kept branch still reaches its full truncated history
	reachableIDs, err := repo.ListCommitsReachableFrom(refName)
	require.Nil(t, err)
	assert.ElementsMatch(t, []gitinterface.Hash{secondCommitID, initialCommitID}, reachableIDs)

	assert.Contains(t, output.String(), "Recorded 2 shallow boundaries, removed 2 references")
}

func TestTruncateKeepPatterns(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	_, err = repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	secondCommitID, err := repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)

	err = repo.SetReference("refs/heads/release-1", secondCommitID)
	require.Nil(t, err)
	err = repo.SetReference("refs/heads/scratch", secondCommitID)
	require.Nil(t, err)

	orphanCommitID, err := repo.CommitUsingSpecificParents(treeID, "Orphan commit\n")
	require.Nil(t, err)

	output := &bytes.Buffer{}
	err = Truncate(repo, &Options{
		Revisions:    []string{orphanCommitID.String()},
		KeepRefs:     []string{"main"},
		KeepPatterns: []string{"refs/heads/release-*"},
		Output:       output,
	})
	assert.Nil(t, err)

	boundaryIDs, err := repo.ReadShallowBoundaries()
	require.Nil(t, err)
	assert.Equal(t, []gitinterface.Hash{orphanCommitID}, boundaryIDs)

	// Pattern matches extend the explicit keep set
	refNames, err := repo.ListReferences(nil)
	require.Nil(t, err)
	assert.Equal(t, []string{refName, "refs/heads/release-1"}, refNames)
}

func TestTruncateDryRun(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	initialCommitID, err := repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	_, err = repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)

	featureCommitID, err := repo.CommitUsingSpecificParents(treeID, "Feature commit\n", initialCommitID)
	require.Nil(t, err)
	err = repo.SetReference("refs/heads/feature", featureCommitID)
	require.Nil(t, err)

	output := &bytes.Buffer{}
	err = Truncate(repo, &Options{
		Revisions: []string{"refs/heads/feature"},
		KeepRefs:  []string{"main"},
		DryRun:    true,
		Output:    output,
	})
	assert.Nil(t, err)

	// The plan is reported but nothing is touched
	assert.False(t, repo.HasShallowRecord())

	refNames, err := repo.ListReferences(nil)
	require.Nil(t, err)
	assert.Equal(t, []string{"refs/heads/feature", refName}, refNames)

	assert.Contains(t, output.String(), "Would record shallow boundary")
	assert.Contains(t, output.String(), "Would remove reference")
	assert.NotContains(t, output.String(), "Recorded")
}

func TestTruncateRecoversStaleShallowRecord(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	initialCommitID, err := repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	secondCommitID, err := repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)

	// A leftover record hides the initial commit; without a remote the
	// record can only be dropped
	err = repo.RecordShallowBoundary(secondCommitID)
	require.Nil(t, err)

	err = Truncate(repo, &Options{Revisions: []string{refName}})
	assert.Nil(t, err)

	// Discovery saw the full history again, not the stale cut
	boundaryIDs, err := repo.ReadShallowBoundaries()
	require.Nil(t, err)
	assert.ElementsMatch(t, []gitinterface.Hash{secondCommitID, initialCommitID}, boundaryIDs)
}

func TestTruncateShrink(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	initialCommitID, err := repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)
	secondCommitID, err := repo.Commit(treeID, refName, "Second commit\n")
	require.Nil(t, err)

	featureCommitID, err := repo.CommitUsingSpecificParents(treeID, "Feature commit\n", initialCommitID)
	require.Nil(t, err)
	err = repo.SetReference("refs/heads/feature", featureCommitID)
	require.Nil(t, err)

	output := &bytes.Buffer{}
	err = Truncate(repo, &Options{
		Revisions: []string{"refs/heads/feature"},
		KeepRefs:  []string{"main"},
		Shrink:    true,
		Output:    output,
	})
	assert.Nil(t, err)

	unreachable, err := repo.ListUnreachableObjects()
	require.Nil(t, err)
	assert.Empty(t, unreachable)

	// The truncated branch is gone from storage entirely
	_, err = repo.ResolveRevision(featureCommitID.String())
	assert.ErrorIs(t, err, gitinterface.ErrRevisionNotFound)

	reachableIDs, err := repo.ListCommitsReachableFrom(refName)
	require.Nil(t, err)
	assert.ElementsMatch(t, []gitinterface.Hash{secondCommitID, initialCommitID}, reachableIDs)
}

func TestTruncateNoRevisions(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	err := Truncate(repo, &Options{})
	assert.ErrorIs(t, err, ErrNoRevisions)
}

func TestTruncateNoKeepRefs(t *testing.T) {
	tempDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tempDir, false)

	refName := "refs/heads/main"

	treeID, err := repo.EmptyTree()
	require.Nil(t, err)

	_, err = repo.Commit(treeID, refName, "Initial commit\n")
	require.Nil(t, err)

	err = Truncate(repo, &Options{
		Revisions:    []string{refName},
		KeepPatterns: []string{"refs/heads/release-*"},
	})
	assert.ErrorIs(t, err, ErrNoKeepRefs)

	assert.False(t, repo.HasShallowRecord())
}
