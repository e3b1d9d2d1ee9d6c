// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional repository-local configuration file. The
// file declares defaults for the truncation run; command line flags extend or
// override them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// DefaultFileName is the name of the configuration file, resolved relative to
// the repository's Git directory.
const DefaultFileName = "gitshallow.yaml"

// Config declares defaults for a truncation run.
type Config struct {
	// Refs lists references whose history must be kept.
	Refs []string `yaml:"refs"`

	// Match lists patterns selecting additional references to keep.
	Match []string `yaml:"match"`

	// Shrink requests storage reclamation after each truncation.
	Shrink bool `yaml:"shrink"`

	// PruneExpire overrides the expiry grace period used during
	// reclamation.
	PruneExpire string `yaml:"prune-expire"`
}

// Load reads the configuration file at the specified path. A missing file is
// not an error, every setting simply takes its zero value.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file '%s': %w", path, err)
	}

	return config, nil
}

// DefaultPath returns the configuration file path for the specified Git
// directory.
func DefaultPath(gitDirPath string) string {
	return filepath.Join(gitDirPath, DefaultFileName)
}
