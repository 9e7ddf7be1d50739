package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RealModule represents a module directory on the real filesystem,
// used by tests that need genuine symlink semantics (see
// filesystem.NewOS / pkg/pathops's testing-approach note).
type RealModule struct {
	SourceRoot string // source root directory containing all modules
	Name       string // module name
	Dir        string // full path to the module directory
}

// SetupRealModule creates a single module directory under a fresh
// source root on the real filesystem.
func SetupRealModule(t *testing.T, moduleName string) *RealModule {
	t.Helper()

	tmpDir := t.TempDir()
	sourceRoot := filepath.Join(tmpDir, "src")
	moduleDir := filepath.Join(sourceRoot, moduleName)

	require.NoError(t, os.MkdirAll(moduleDir, 0755))

	return &RealModule{
		SourceRoot: sourceRoot,
		Name:       moduleName,
		Dir:        moduleDir,
	}
}

// SetupRealModuleWithTarget creates a module and a separate empty
// target directory, and returns both.
func SetupRealModuleWithTarget(t *testing.T, moduleName string) (*RealModule, string) {
	t.Helper()

	module := SetupRealModule(t, moduleName)
	targetDir := filepath.Join(filepath.Dir(module.SourceRoot), "target")

	require.NoError(t, os.MkdirAll(targetDir, 0755))

	return module, targetDir
}

// AddFile adds a file to the module.
func (m *RealModule) AddFile(t *testing.T, relPath, content string) string {
	t.Helper()

	filePath := filepath.Join(m.Dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	return filePath
}

// AddDescriptor writes an .ndmgr descriptor file for the module.
func (m *RealModule) AddDescriptor(t *testing.T, d ModuleDescriptor) {
	t.Helper()
	m.AddFile(t, ".ndmgr", d.String())
}

// SetupMultipleRealModules creates several modules sharing a source root.
func SetupMultipleRealModules(t *testing.T, names ...string) map[string]*RealModule {
	t.Helper()

	if len(names) == 0 {
		return nil
	}

	tmpDir := t.TempDir()
	sourceRoot := filepath.Join(tmpDir, "src")

	modules := make(map[string]*RealModule, len(names))
	for _, name := range names {
		moduleDir := filepath.Join(sourceRoot, name)
		require.NoError(t, os.MkdirAll(moduleDir, 0755))
		modules[name] = &RealModule{SourceRoot: sourceRoot, Name: name, Dir: moduleDir}
	}
	return modules
}
