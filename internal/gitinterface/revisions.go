// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRevisionNotFound indicates that a revision expression does not resolve
// to an object known to the repository.
var ErrRevisionNotFound = errors.New("requested revision does not exist")

// ResolveRevision resolves a revision expression (a ref name, an object ID, a
// traversal expression such as `HEAD~2`) to the ID of the commit it names.
// Annotated tags are dereferenced to the underlying commit.
func (r *Repository) ResolveRevision(expression string) (Hash, error) {
	output, err := r.executor("rev-parse", "--verify", fmt.Sprintf("%s^{}", expression)).executeString()
	if err != nil {
		if strings.Contains(err.Error(), "Needed a single revision") || strings.Contains(err.Error(), "unknown revision or path not in the working tree") {
			return ZeroHash, fmt.Errorf("%w: '%s'", ErrRevisionNotFound, expression)
		}
		return ZeroHash, fmt.Errorf("unable to resolve revision '%s': %w", expression, err)
	}

	objectID, err := NewHash(output)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid object ID for revision '%s': %w", expression, err)
	}

	return objectID, nil
}

// ResolveRevisions resolves each expression in turn, returning the object IDs
// in the same order as the input. Resolution stops at the first expression
// that fails.
func (r *Repository) ResolveRevisions(expressions []string) ([]Hash, error) {
	objectIDs := make([]Hash, 0, len(expressions))
	for _, expression := range expressions {
		objectID, err := r.ResolveRevision(expression)
		if err != nil {
			return nil, err
		}
		objectIDs = append(objectIDs, objectID)
	}

	return objectIDs, nil
}

// SymbolicFullName returns the fully qualified name of the reference the
// expression refers to, e.g. `main` becomes `refs/heads/main`.
func (r *Repository) SymbolicFullName(expression string) (string, error) {
	output, err := r.executor("rev-parse", "--symbolic-full-name", expression).executeString()
	if err != nil {
		return "", fmt.Errorf("unable to identify full name of '%s': %w", expression, err)
	}

	if output == "" {
		return "", fmt.Errorf("%w: '%s' is not a reference", ErrReferenceNotFound, expression)
	}

	return output, nil
}

// ListCommitsReachableFrom returns the IDs of every commit reachable from the
// specified starting points, which may be object IDs or reference names.
func (r *Repository) ListCommitsReachableFrom(startingPoints ...string) ([]Hash, error) {
	if len(startingPoints) == 0 {
		return nil, nil
	}

	args := append([]string{"rev-list"}, startingPoints...)
	output, err := r.executor(args...).executeString()
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate reachable commits: %w", err)
	}

	if output == "" {
		return nil, nil
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
			return nil, fmt.Errorf("invalid commit ID '%s': %w", line, err)
		}
		commitIDs = append(commitIDs, commitID)
	}

	return commitIDs, nil
}
