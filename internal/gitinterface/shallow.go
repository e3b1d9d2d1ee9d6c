// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// shallowFileName is the name of the shallow boundary record inside GIT_DIR.
const shallowFileName = "shallow"

func (r *Repository) shallowFilePath() string {
	return filepath.Join(r.gitDirPath, shallowFileName)
}

// HasShallowRecord reports whether the repository carries a shallow boundary
// record.
func (r *Repository) HasShallowRecord() bool {
	_, err := os.Stat(r.shallowFilePath())
	return err == nil
}

// RecordShallowBoundary appends the specified commit to the repository's
// shallow record, creating the record if necessary. The write is flushed
// before returning so that Git invocations issued afterwards observe the
// boundary.
func (r *Repository) RecordShallowBoundary(commitID Hash) error {
	file, err := os.OpenFile(r.shallowFilePath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open shallow record: %w", err)
	}

	if _, err := file.WriteString(commitID.String() + "\n"); err != nil {
		file.Close() //nolint:errcheck
		return fmt.Errorf("unable to record shallow boundary '%s': %w", commitID.String(), err)
	}

	if err := file.Sync(); err != nil {
		file.Close() //nolint:errcheck
		return fmt.Errorf("unable to flush shallow record: %w", err)
	}

	return file.Close()
}

// ReadShallowBoundaries returns the commits listed in the repository's
// shallow record. A repository without a record has no boundaries.
func (r *Repository) ReadShallowBoundaries() ([]Hash, error) {
	goGitRepo, err := r.GetGoGitRepository()
	if err != nil {
		return nil, err
	}

	shallowIDs, err := goGitRepo.Storer.Shallow()
	if err != nil {
		return nil, fmt.Errorf("unable to read shallow record: %w", err)
	}

	boundaryIDs := make([]Hash, 0, len(shallowIDs))
	for _, shallowID := range shallowIDs {
		boundaryID, err := NewHash(shallowID.String())
		if err != nil {
			return nil, fmt.Errorf("invalid shallow boundary ID '%s': %w", shallowID.String(), err)
		}
		boundaryIDs = append(boundaryIDs, boundaryID)
	}

	return boundaryIDs, nil
}

// RemoveShallowRecord deletes the repository's shallow record. An absent
// record is not an error.
func (r *Repository) RemoveShallowRecord() error {
	if err := os.Remove(r.shallowFilePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to remove shallow record: %w", err)
	}

	return nil
}
