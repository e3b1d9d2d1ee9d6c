// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	testName  = "Jane Doe"
	testEmail = "jane.doe@example.com"
)

var (
	testClock = clockwork.NewFakeClockAt(time.Date(1995, time.October, 26, 9, 0, 0, 0, time.UTC))
)

// CreateTestGitRepository creates a Git repository in the specified directory.
// This is meant to be used by tests across gitshallow packages. The
// repository uses a fixed clock and author identity so that object IDs are
// reproducible.
func CreateTestGitRepository(t *testing.T, dir string, bare bool) *Repository {
	t.Helper()

	repo := setupRepository(t, dir, bare)

	// Set up author / committer identity
	if err := repo.SetGitConfig("user.name", testName); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetGitConfig("user.email", testEmail); err != nil {
		t.Fatal(err)
	}

	return repo
}

func setupRepository(t *testing.T, dir string, bare bool) *Repository {
	t.Helper()

	var gitDirPath string
	args := []string{"init"}
	if bare {
		args = append(args, "--bare")
		gitDirPath = dir
	} else {
		gitDirPath = filepath.Join(dir, ".git")
	}
	args = append(args, "-b", "main")
	args = append(args, dir)

	cmd := exec.Command(binary, args...)
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}

	return &Repository{gitDirPath: gitDirPath, clock: testClock}
}

// CreateTestShallowClone clones the repository at originDir into dir with a
// history depth of one. The file:// transport is required for Git to honor
// the depth for a local origin.
func CreateTestShallowClone(t *testing.T, originDir, dir string) *Repository {
	t.Helper()

	cmd := exec.Command(binary, "clone", "--depth", "1", "file://"+originDir, dir)
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}

	return &Repository{gitDirPath: filepath.Join(dir, ".git"), clock: testClock}
}

// commitWithParents creates a commit with the specified parents without
// updating any reference, failing the calling test on error.
func (r *Repository) commitWithParents(t *testing.T, treeID Hash, parentIDs []Hash, message string) Hash {
	t.Helper()

	commitID, err := r.CommitUsingSpecificParents(treeID, message, parentIDs...)
	if err != nil {
		t.Fatal(err)
	}

	return commitID
}
