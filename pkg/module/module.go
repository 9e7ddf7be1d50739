// Package module implements the ModuleScanner and the .ndmgr descriptor
// parser (spec.md §4.3, §6). A Module is a directory under the source
// root that the Linker treats as a unit of deployment: either a direct
// child of the source root, or — for grouped layouts — a directory
// found by recursing through non-module container directories, marked
// by its own .ndmgr file.
package module

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/matcher"
)

// DescriptorName is the recognized per-module override file name.
const DescriptorName = ".ndmgr"

// Module describes one discovered module.
type Module struct {
	Name        string // base name, used for sort order and CLI addressing
	Path        string // absolute path to the module's root directory
	ConfigPath  string // absolute path to its .ndmgr file, "" if none
	TargetDir   string // raw target_dir value from .ndmgr, unexpanded
	Ignore      bool
	Description string
}

// Scanner discovers modules under a source root.
type Scanner struct {
	FS             filesystem.FS
	IgnorePatterns []string
	ScanDepth      uint32
}

// NewScanner constructs a Scanner. scanDepth must be >= 1; the caller
// (the Deployer / CLI, which owns the resolved Config) is responsible
// for validating that invariant up front.
func NewScanner(fs filesystem.FS, ignorePatterns []string, scanDepth uint32) *Scanner {
	return &Scanner{FS: fs, IgnorePatterns: ignorePatterns, ScanDepth: scanDepth}
}

// Scan walks sourceRoot and returns the modules found, sorted by name
// ascending with the full path as a deterministic tie-break.
func (s *Scanner) Scan(sourceRoot string) ([]Module, error) {
	depth := s.ScanDepth
	if depth < 1 {
		depth = 1
	}

	modules, err := s.collect(sourceRoot, 0, depth)
	if err != nil {
		return nil, err
	}

	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Name != modules[j].Name {
			return modules[i].Name < modules[j].Name
		}
		return modules[i].Path < modules[j].Path
	})

	return modules, nil
}

// collect implements spec.md §4.3's walk. k is the current recursion
// depth (0 at sourceRoot). A directory containing .ndmgr is always a
// terminal module. A directory without one is, at k==0, treated first
// as a potential grouping container: collect recurses into it looking
// for nested .ndmgr-marked modules (up to the configured scan depth);
// if none are found there, the directory itself is emitted as a
// default, override-free module — the common flat package layout.
// Beyond k==0, a directory without its own .ndmgr and without any
// nested modules is simply ignored: grouping containers do not
// themselves become modules.
func (s *Scanner) collect(dir string, k int, depth uint32) ([]Module, error) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.SourceUnreadable, "reading %q", dir)
	}

	var out []Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if matcher.MatchesAny(name, s.IgnorePatterns) {
			continue
		}

		childPath := filepath.Join(dir, name)
		configPath := filepath.Join(childPath, DescriptorName)

		if has, err := fileExists(s.FS, configPath); err != nil {
			return nil, err
		} else if has {
			mod, err := buildModule(s.FS, name, childPath, configPath)
			if err != nil {
				return nil, err
			}
			out = append(out, mod)
			continue
		}

		if uint32(k)+1 < depth {
			nested, err := s.collect(childPath, k+1, depth)
			if err != nil {
				return nil, err
			}
			if len(nested) > 0 {
				out = append(out, nested...)
				continue
			}
		}

		if k == 0 {
			mod, err := buildModule(s.FS, name, childPath, "")
			if err != nil {
				return nil, err
			}
			out = append(out, mod)
		}
	}

	return out, nil
}

func buildModule(fs filesystem.FS, name, path, configPath string) (Module, error) {
	mod := Module{Name: name, Path: path, ConfigPath: configPath}

	if configPath == "" {
		return mod, nil
	}

	content, err := fs.ReadFile(configPath)
	if err != nil {
		return Module{}, errors.Wrapf(err, errors.ErrModuleAccess, "reading %q", configPath)
	}

	d := ParseDescriptor(content)
	mod.TargetDir = d.TargetDir
	mod.Ignore = d.Ignore
	mod.Description = d.Description
	return mod, nil
}

func fileExists(fs filesystem.FS, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.TransientIO, "stat %q", path)
	}
	return !info.IsDir(), nil
}
