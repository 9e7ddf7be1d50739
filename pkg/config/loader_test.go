package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, ConflictFail, cfg.Linking.ConflictResolution)
	assert.Equal(t, FoldDirectory, cfg.Linking.TreeFolding)
	assert.True(t, cfg.Linking.BackupConflicts)
	assert.Equal(t, "bkp", cfg.Linking.BackupSuffix)
	assert.Equal(t, uint32(5), cfg.Linking.ScanDepth)
	assert.Contains(t, cfg.Linking.IgnorePatterns, ".git")
}

func TestLoad_RootConfigOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	rootConfig := filepath.Join(tmpDir, ".ndmgr.toml")
	require.NoError(t, os.WriteFile(rootConfig, []byte(`
[linking]
conflict_resolution = "adopt"
scan_depth = 10
`), 0644))

	cfg, err := Load(tmpDir, "")
	require.NoError(t, err)

	assert.Equal(t, ConflictAdopt, cfg.Linking.ConflictResolution)
	assert.Equal(t, uint32(10), cfg.Linking.ScanDepth)
	// Untouched keys still come from defaults.
	assert.Equal(t, FoldDirectory, cfg.Linking.TreeFolding)
}

func TestLoad_ExplicitPathWinsOverRoot(t *testing.T) {
	tmpDir := t.TempDir()

	rootConfig := filepath.Join(tmpDir, ".ndmgr.toml")
	require.NoError(t, os.WriteFile(rootConfig, []byte(`
[linking]
conflict_resolution = "adopt"
`), 0644))

	explicit := filepath.Join(tmpDir, "override.toml")
	require.NoError(t, os.WriteFile(explicit, []byte(`
[linking]
conflict_resolution = "replace"
`), 0644))

	cfg, err := Load(tmpDir, explicit)
	require.NoError(t, err)

	assert.Equal(t, ConflictReplace, cfg.Linking.ConflictResolution)
}

func TestLoad_NoRootConfigIsNotAnError(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir, "")
	require.NoError(t, err)
	assert.Equal(t, ConflictFail, cfg.Linking.ConflictResolution)
}

func TestLoad_RepositorySections(t *testing.T) {
	tmpDir := t.TempDir()

	rootConfig := filepath.Join(tmpDir, ".ndmgr.toml")
	require.NoError(t, os.WriteFile(rootConfig, []byte(`
[[repository]]
name = "dotfiles"
path = "~/dotfiles"
remote = "git@github.com:me/dotfiles.git"
branch = "main"
auto_commit = true

[[repository]]
name = "work"
path = "~/work-dotfiles"
remote = "git@github.com:me/work-dotfiles.git"
branch = "main"
`), 0644))

	cfg, err := Load(tmpDir, "")
	require.NoError(t, err)

	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "dotfiles", cfg.Repositories[0].Name)
	assert.True(t, cfg.Repositories[0].AutoCommit)
	assert.Equal(t, "work", cfg.Repositories[1].Name)
	assert.False(t, cfg.Repositories[1].AutoCommit)
}

func TestLoad_ObsoleteDeploymentSectionIsIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	rootConfig := filepath.Join(tmpDir, ".ndmgr.toml")
	require.NoError(t, os.WriteFile(rootConfig, []byte(`
[deployment]
scan_depth = 99

[linking]
scan_depth = 3
`), 0644))

	cfg, err := Load(tmpDir, "")
	require.NoError(t, err)

	// linking.scan_depth wins; deployment.scan_depth is a logged-and-
	// ignored legacy alias (spec.md §9).
	assert.Equal(t, uint32(3), cfg.Linking.ScanDepth)
}
