// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package shallow

import (
	"fmt"
	"log/slog"

	"github.com/gitshallow/gitshallow/internal/gitinterface"
)

// Reclaim frees the storage occupied by truncated history: reflog entries
// anchoring unreachable commits are expired, reachable objects are repacked
// into a single pack, any alternates linkage is removed so borrowed objects
// are not resurrected, and unreachable loose objects older than pruneExpire
// are deleted. Each step assumes the previous one completed.
func Reclaim(repo *gitinterface.Repository, pruneExpire string) error {
	slog.Debug("Expiring reflog entries for unreachable commits...")
	if err := repo.ExpireReflogEntries(); err != nil {
		return err
	}

	slog.Debug("Repacking reachable objects...")
	if err := repo.RepackObjects(); err != nil {
		return err
	}

	slog.Debug("Removing alternates linkage...")
	if err := repo.RemoveAlternatesFile(); err != nil {
		return err
	}

	slog.Debug(fmt.Sprintf("Pruning loose objects older than '%s'...", pruneExpire))
	return repo.PruneObjects(pruneExpire)
}
