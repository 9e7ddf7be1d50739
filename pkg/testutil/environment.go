// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate test environments with a source root, a target
// base, and a home directory wired consistently for linker/deployer tests.

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ndmgr/ndmgr/pkg/filesystem"
)

// EnvType defines the type of test environment.
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // MemoryFS, with real (non-afero) symlink tracking
	EnvIsolated                  // real filesystem in a temp directory
)

// TestEnvironment provides a complete, isolated source/target/home
// layout for linker, analyzer, and deployer tests.
type TestEnvironment struct {
	SourceRoot string
	TargetBase string
	HomeDir    string

	FS filesystem.FS

	Type EnvType

	t       *testing.T
	cleanup []func()
}

// NewTestEnvironment creates a new test environment of the given type.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.setupMemoryEnvironment()
	case EnvIsolated:
		env.setupIsolatedEnvironment()
	}

	t.Cleanup(env.Cleanup)
	return env
}

func (env *TestEnvironment) setupMemoryEnvironment() {
	env.SourceRoot = "/virtual/src"
	env.TargetBase = "/virtual/home"
	env.HomeDir = "/virtual/home"

	env.FS = NewMemoryFS()
	_ = env.FS.MkdirAll(env.SourceRoot, 0755)
	_ = env.FS.MkdirAll(env.TargetBase, 0755)
}

func (env *TestEnvironment) setupIsolatedEnvironment() {
	tmpDir := env.t.TempDir()

	env.SourceRoot = filepath.Join(tmpDir, "src")
	env.TargetBase = filepath.Join(tmpDir, "home")
	env.HomeDir = env.TargetBase

	env.FS = filesystem.NewOS()
	_ = env.FS.MkdirAll(env.SourceRoot, 0755)
	_ = env.FS.MkdirAll(env.TargetBase, 0755)
}

// Cleanup runs any registered cleanup functions.
func (env *TestEnvironment) Cleanup() {
	for _, fn := range env.cleanup {
		fn()
	}
}

// SetupModule creates a module directory under SourceRoot with the
// given configuration and returns a handle to it.
func (env *TestEnvironment) SetupModule(name string, config ModuleConfig) *TestModule {
	env.t.Helper()

	modulePath := filepath.Join(env.SourceRoot, name)
	if err := env.FS.MkdirAll(modulePath, 0755); err != nil {
		env.t.Fatalf("failed to create module directory: %v", err)
	}

	for relPath, content := range config.Files {
		fullPath := filepath.Join(modulePath, relPath)
		if dir := filepath.Dir(fullPath); dir != "." {
			if err := env.FS.MkdirAll(dir, 0755); err != nil {
				env.t.Fatalf("failed to create directory %s: %v", dir, err)
			}
		}
		if err := env.FS.WriteFile(fullPath, []byte(content), 0644); err != nil {
			env.t.Fatalf("failed to write file %s: %v", relPath, err)
		}
	}

	for _, dir := range config.Dirs {
		if err := env.FS.MkdirAll(filepath.Join(modulePath, dir), 0755); err != nil {
			env.t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	if config.Descriptor != nil {
		descriptorPath := filepath.Join(modulePath, ".ndmgr")
		if err := env.FS.WriteFile(descriptorPath, []byte(config.Descriptor.String()), 0644); err != nil {
			env.t.Fatalf("failed to write .ndmgr: %v", err)
		}
	}

	return &TestModule{Name: name, Path: modulePath, env: env}
}

// WithFileTree materializes a nested FileTree under SourceRoot.
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.SourceRoot, tree)
}

// WithTargetFileTree materializes a nested FileTree under TargetBase,
// for setting up pre-existing target-side state (conflicts, foreign
// symlinks, etc).
func (env *TestEnvironment) WithTargetFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.TargetBase, tree)
}

func createFileTree(t *testing.T, fs filesystem.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("invalid file tree content type for %s: %T", name, content)
		}
	}
}
