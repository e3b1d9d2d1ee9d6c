// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitConfig(t *testing.T) {
	tempDir := t.TempDir()
	repo := CreateTestGitRepository(t, tempDir, false)

	config, err := repo.GetGitConfig()
	require.Nil(t, err)
	assert.Equal(t, testName, config["user.name"])
	assert.Equal(t, testEmail, config["user.email"])

	err = repo.SetGitConfig("core.abbrev", "12")
	require.Nil(t, err)

	config, err = repo.GetGitConfig()
	require.Nil(t, err)
	assert.Equal(t, "12", config["core.abbrev"])
}
