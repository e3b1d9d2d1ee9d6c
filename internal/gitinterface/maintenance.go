// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpireReflogEntries drops reflog entries that refer to commits no longer
// reachable from any reference. Reflogs anchor objects, so this must run
// before repacking frees any truncated history.
func (r *Repository) ExpireReflogEntries() error {
	if _, err := r.executor("reflog", "expire", "--expire-unreachable=now", "--all").executeString(); err != nil {
		return fmt.Errorf("unable to expire reflog entries: %w", err)
	}

	return nil
}

// RepackObjects rewrites the repository's packs into a single pack containing
// only reachable objects. Previously packed objects that are now unreachable
// are loosened for PruneObjects to collect.
func (r *Repository) RepackObjects() error {
	if _, err := r.executor("repack", "-ad").executeString(); err != nil {
		return fmt.Errorf("unable to repack objects: %w", err)
	}

	return nil
}

// RemoveAlternatesFile disconnects the repository from any shared object
// stores it borrows from. An absent alternates file is not an error.
func (r *Repository) RemoveAlternatesFile() error {
	alternatesPath := filepath.Join(r.gitDirPath, "objects", "info", "alternates")
	if err := os.Remove(alternatesPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to remove alternates file: %w", err)
	}

	return nil
}

// PruneObjects removes unreachable loose objects older than the specified
// expiry, e.g. "now" or "2.weeks.ago".
func (r *Repository) PruneObjects(expire string) error {
	if _, err := r.executor("prune", "--expire", expire).executeString(); err != nil {
		return fmt.Errorf("unable to prune objects: %w", err)
	}

	return nil
}

// ListUnreachableObjects reports the objects in the repository that are not
// reachable from any reference, one fsck line per object.
func (r *Repository) ListUnreachableObjects() ([]string, error) {
	output, err := r.executor("fsck", "--unreachable").executeString()
	if err != nil {
		return nil, fmt.Errorf("unable to check object reachability: %w", err)
	}

	if output == "" {
		return nil, nil
	}

	lines := []string{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines, nil
}
