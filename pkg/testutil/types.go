package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileTree represents a nested file structure for declarative test setup.
type FileTree map[string]interface{}

// ModuleConfig defines the configuration for setting up a test module.
type ModuleConfig struct {
	// Files maps relative paths (within the module) to file contents.
	Files map[string]string

	// Dirs are empty directories to create within the module.
	Dirs []string

	// Descriptor, if non-nil, writes an .ndmgr file with these fields.
	Descriptor *ModuleDescriptor
}

// ModuleDescriptor mirrors the recognized keys of the .ndmgr file format.
type ModuleDescriptor struct {
	TargetDir   string
	Ignore      bool
	Description string
}

// String renders the descriptor in the line-oriented .ndmgr format:
// "key = value" pairs, one per line.
func (d ModuleDescriptor) String() string {
	var lines []string
	if d.TargetDir != "" {
		lines = append(lines, fmt.Sprintf("target_dir = %q", d.TargetDir))
	}
	if d.Ignore {
		lines = append(lines, "ignore = true")
	}
	if d.Description != "" {
		lines = append(lines, fmt.Sprintf("description = %q", d.Description))
	}
	return strings.Join(lines, "\n")
}

// TestModule represents a module directory created in a test environment.
type TestModule struct {
	Name string
	Path string
	env  *TestEnvironment
}

// AddFile adds a file to an existing test module.
func (m *TestModule) AddFile(path, content string) *TestModule {
	fullPath := filepath.Join(m.Path, path)
	dir := filepath.Dir(fullPath)

	if err := m.env.FS.MkdirAll(dir, 0755); err != nil {
		m.env.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := m.env.FS.WriteFile(fullPath, []byte(content), 0644); err != nil {
		m.env.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return m
}

// AddSymlink adds a symlink inside the module's source tree (e.g. to
// simulate a module that itself contains a pre-existing symlink).
func (m *TestModule) AddSymlink(relPath, target string) *TestModule {
	fullPath := filepath.Join(m.Path, relPath)
	if err := m.env.FS.Symlink(target, fullPath); err != nil {
		m.env.t.Fatalf("failed to create symlink %s -> %s: %v", fullPath, target, err)
	}
	return m
}

// AddDirectory creates a directory within the module.
func (m *TestModule) AddDirectory(relPath string) *TestModule {
	dirPath := filepath.Join(m.Path, relPath)
	if err := m.env.FS.MkdirAll(dirPath, 0755); err != nil {
		m.env.t.Fatalf("failed to create directory %s: %v", dirPath, err)
	}
	return m
}

// Common pre-built module configurations, used across scanner/analyzer/
// linker/deployer tests.

// VimModule returns a module shaped like scenario 1 of the testable
// end-to-end scenarios (spec.md §8): a single top-level file.
func VimModule() ModuleConfig {
	return ModuleConfig{
		Files: map[string]string{
			".vimrc": "\" Standard vimrc\nset number\nset expandtab",
		},
	}
}

// NestedConfigModule returns a module whose payload lives under a
// nested directory, exercising TreeAnalyzer folding (spec.md §4.4,
// scenario 4).
func NestedConfigModule() ModuleConfig {
	return ModuleConfig{
		Files: map[string]string{
			".config/app/conf": "key = value",
		},
	}
}

// DataModule returns a module with a small data directory, used for
// adoption scenarios (spec.md §8, scenario 5).
func DataModule() ModuleConfig {
	return ModuleConfig{
		Files: map[string]string{
			"data/a.txt": "USER_OVERRIDE_SOURCE_WINS",
		},
	}
}

// IgnoredModule returns a module config with an .ndmgr descriptor that
// marks it ignored.
func IgnoredModule() ModuleConfig {
	return ModuleConfig{
		Files: map[string]string{
			"README.md": "not a real module",
		},
		Descriptor: &ModuleDescriptor{Ignore: true},
	}
}
