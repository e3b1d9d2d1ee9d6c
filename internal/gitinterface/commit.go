// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// GetCommitParentIDs returns the IDs of the direct parents of the specified
// commit. The answer honors the repository's shallow record: a commit listed
// as a shallow boundary reports no parents, as does a root commit.
func (r *Repository) GetCommitParentIDs(commitID Hash) ([]Hash, error) {
	output, err := r.executor("rev-parse", fmt.Sprintf("%s^@", commitID.String())).executeString()
	if err != nil {
		return nil, fmt.Errorf("unable to identify parents of commit '%s': %w", commitID.String(), err)
	}

	if output == "" {
		return nil, nil
	}

	lines := strings.Split(output, "\n")
	parentIDs := make([]Hash, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parentID, err := NewHash(line)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID '%s' for commit '%s': %w", line, commitID.String(), err)
		}
		parentIDs = append(parentIDs, parentID)
	}

	if len(parentIDs) == 0 {
		return nil, nil
	}

	return parentIDs, nil
}

// Commit creates a new commit in the repo and sets targetRef's tip to the
// commit.
func (r *Repository) Commit(treeID Hash, targetRef, message string) (Hash, error) {
	currentCommitID, err := r.GetReference(targetRef)
	if err != nil && !errors.Is(err, ErrReferenceNotFound) {
		return ZeroHash, err
	}

	var parentIDs []Hash
	if !currentCommitID.IsZero() {
		parentIDs = append(parentIDs, currentCommitID)
	}

	commitID, err := r.CommitUsingSpecificParents(treeID, message, parentIDs...)
	if err != nil {
		return ZeroHash, err
	}

	return commitID, r.CheckAndSetReference(targetRef, commitID, currentCommitID)
}

// CommitUsingSpecificParents creates a commit with exactly the specified
// parents, without consulting or updating any reference. It is primarily
// intended for constructing commit graphs in tests.
func (r *Repository) CommitUsingSpecificParents(treeID Hash, message string, parentIDs ...Hash) (Hash, error) {
	args := []string{"commit-tree", "-m", message}
	for _, parentID := range parentIDs {
		args = append(args, "-p", parentID.String())
	}
	args = append(args, treeID.String())

	now := r.clock.Now().Format(time.RFC3339)
	env := []string{
		fmt.Sprintf("%s=%s", authorTimeKey, now),
		fmt.Sprintf("%s=%s", committerTimeKey, now),
	}

	output, err := r.executor(args...).withEnv(env...).executeString()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to create commit: %w", err)
	}

	commitID, err := NewHash(output)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid commit ID: %w", err)
	}

	return commitID, nil
}
