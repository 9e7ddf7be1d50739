// Package simpleunlink implements the SimpleUnlinker (spec.md §4.7): the
// unlink path used when the user names a module bare, without an
// explicit source/target pair, so there is no Linker instance already
// holding the module's relative-path bookkeeping.
package simpleunlink

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/module"
	"github.com/ndmgr/ndmgr/pkg/pathops"
)

// Options configures one Unlink invocation.
type Options struct {
	// HomeDir is used both to expand a "~"-prefixed target_dir override
	// and as the default effective target when the module carries none.
	HomeDir string
}

// Unlinker resolves a bare module name to its effective target and
// removes every symlink there that points back into the module.
type Unlinker struct {
	FS      filesystem.FS
	Options Options

	log zerolog.Logger
}

// New constructs an Unlinker.
func New(fs filesystem.FS, opts Options) *Unlinker {
	return &Unlinker{FS: fs, Options: opts, log: logging.GetLogger("simpleunlink")}
}

// Unlink implements spec.md §4.7's five-way dispatch on cwd/moduleName,
// returning the number of symlinks removed.
func (u *Unlinker) Unlink(cwd, moduleName string) (int, error) {
	p := filepath.Join(cwd, moduleName)

	kind, err := pathops.Classify(u.FS, p)
	if err != nil {
		return 0, err
	}

	switch kind {
	case pathops.Missing:
		u.log.Warn().Str("path", p).Msg("module path does not exist, nothing to unlink")
		return 0, nil
	case pathops.Symlink:
		if err := u.FS.Remove(p); err != nil {
			return 0, errors.Wrapf(err, errors.TransientIO, "removing %q", p)
		}
		return 1, nil
	case pathops.Dir:
		return u.unlinkDir(p)
	default:
		u.log.Warn().Str("path", p).Str("kind", kind.String()).Msg("unsupported entry kind, nothing to unlink")
		return 0, nil
	}
}

func (u *Unlinker) unlinkDir(modulePath string) (int, error) {
	effectiveTarget, err := u.effectiveTarget(modulePath)
	if err != nil {
		return 0, err
	}

	canonicalModule, err := pathops.Canonicalize(modulePath)
	if err != nil {
		return 0, err
	}

	return u.walk(effectiveTarget, canonicalModule)
}

// effectiveTarget reads modulePath/.ndmgr's target_dir key, if present,
// else falls back to HomeDir.
func (u *Unlinker) effectiveTarget(modulePath string) (string, error) {
	descPath := filepath.Join(modulePath, module.DescriptorName)

	if info, err := u.FS.Stat(descPath); err == nil && !info.IsDir() {
		content, err := u.FS.ReadFile(descPath)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrModuleAccess, "reading %q", descPath)
		}
		d := module.ParseDescriptor(content)
		if d.TargetDir != "" {
			return pathops.Expand(d.TargetDir, u.Options.HomeDir)
		}
	}

	if u.Options.HomeDir == "" {
		return "", errors.New(errors.NoHomeDirectory, "no target_dir override and no home directory configured")
	}
	return u.Options.HomeDir, nil
}

// walk recursively visits dir, removing any symlink whose resolved (or
// literal-if-absolute) destination lies under canonicalModule. Plain
// directories are descended into; a visited-canonical-path set bounds
// recursion against a cycle in the target tree itself.
func (u *Unlinker) walk(dir, canonicalModule string) (int, error) {
	count := 0
	visited := map[string]struct{}{}

	var recurse func(string) error
	recurse = func(d string) error {
		entries, err := u.FS.ReadDir(d)
		if err != nil {
			return errors.Wrapf(err, errors.TransientIO, "reading %q", d)
		}

		for _, entry := range entries {
			entryPath := filepath.Join(d, entry.Name())

			isLink, err := pathops.IsSymlink(u.FS, entryPath)
			if err != nil {
				return err
			}

			if isLink {
				if u.resolvesUnder(entryPath, canonicalModule) {
					if err := u.FS.Remove(entryPath); err != nil {
						return errors.Wrapf(err, errors.TransientIO, "removing %q", entryPath)
					}
					count++
					u.log.Debug().Str("path", entryPath).Msg("removed symlink")
				}
				continue
			}

			if !entry.IsDir() {
				continue
			}

			if canon, err := pathops.Canonicalize(entryPath); err == nil {
				if _, seen := visited[canon]; seen {
					continue
				}
				visited[canon] = struct{}{}
			}

			if err := recurse(entryPath); err != nil {
				return err
			}
		}
		return nil
	}

	if err := recurse(dir); err != nil {
		return count, err
	}
	return count, nil
}

func (u *Unlinker) resolvesUnder(linkPath, canonicalModule string) bool {
	text, err := pathops.ReadLink(u.FS, linkPath)
	if err != nil {
		return false
	}

	dest := text
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(linkPath), dest)
	}
	dest = filepath.Clean(dest)

	return dest == canonicalModule || strings.HasPrefix(dest, canonicalModule+string(filepath.Separator))
}
