// Package linker implements the Linker (spec.md §4.5): it executes
// link/unlink of one module against one target, honoring conflict
// policy, backup policy, and the TreeAnalyzer's fold decisions, while
// maintaining LinkingStats counters.
package linker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ndmgr/ndmgr/pkg/analyzer"
	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/matcher"
	"github.com/ndmgr/ndmgr/pkg/module"
	"github.com/ndmgr/ndmgr/pkg/pathops"
	"github.com/ndmgr/ndmgr/pkg/prompt"
)

// Options is a module's per-invocation LinkerOptions (spec.md §3).
type Options struct {
	IgnorePatterns     []string
	ConflictResolution config.ConflictResolution
	TreeFolding        config.TreeFolding
	BackupConflicts    bool
	BackupSuffix       string
	ForceMode          prompt.ForceMode
	Verbose            bool
}

// Stats is the LinkingStats counter set (spec.md §3).
type Stats struct {
	FilesLinked       int
	DirsLinked        int
	FilesSkipped      int
	ConflictsResolved int
	FilesAdopted      int
	BackupsCreated    int
}

// Linker executes link/unlink of one module against one target.
type Linker struct {
	FS      filesystem.FS
	Prompt  prompt.Handler
	Options Options
	Stats   Stats

	sourceRoot string
	analyzer   *analyzer.Analyzer
}

// New constructs a Linker for a single module/target pair.
func New(fs filesystem.FS, p prompt.Handler, opts Options) *Linker {
	return &Linker{FS: fs, Prompt: p, Options: opts}
}

// Link traverses sourceRoot (a module's canonical source directory)
// and materializes it under targetBase via symlinks, per spec.md §4.5.
func (l *Linker) Link(sourceRoot, targetBase string) error {
	l.sourceRoot = sourceRoot
	l.analyzer = &analyzer.Analyzer{
		FS:                 l.FS,
		IgnorePatterns:     l.Options.IgnorePatterns,
		TreeFolding:        l.Options.TreeFolding,
		ConflictResolution: l.Options.ConflictResolution,
	}

	analysis, err := l.analyzer.Analyze(sourceRoot, targetBase)
	if err != nil {
		return err
	}

	return l.linkDir(sourceRoot, targetBase, "", analysis)
}

func (l *Linker) linkDir(sourceDir, targetBase, rel string, analysis *analyzer.TreeAnalysis) error {
	entries, err := l.FS.ReadDir(sourceDir)
	if err != nil {
		return errors.Wrapf(err, errors.SourceUnreadable, "reading %q", sourceDir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == module.DescriptorName || matcher.MatchesAny(name, l.Options.IgnorePatterns) {
			l.Stats.FilesSkipped++
			continue
		}

		childRel := name
		if rel != "" {
			childRel = filepath.Join(rel, name)
		}
		childSource := filepath.Join(sourceDir, name)
		childTarget := filepath.Join(targetBase, childRel)

		if entry.IsDir() {
			if analysis.IsFoldable(childRel) {
				if err := l.createDirectorySymlink(childSource, childTarget); err != nil {
					return err
				}
				continue
			}
			if err := pathops.EnsureDirTree(l.FS, childTarget); err != nil {
				return err
			}
			if err := l.linkDir(childSource, targetBase, childRel, analysis); err != nil {
				return err
			}
			continue
		}

		if err := l.createFileSymlink(childSource, childTarget); err != nil {
			return err
		}
	}

	return nil
}

// createFileSymlink / createDirectorySymlink share the sequence from
// spec.md §4.5: compute the relative link text, classify the target,
// create/recognize/conflict.

func (l *Linker) createFileSymlink(source, target string) error {
	relative := pathops.MakeRelative(source, target)

	kind, err := pathops.Classify(l.FS, target)
	if err != nil {
		return err
	}

	switch kind {
	case pathops.Missing:
		if err := l.writeSymlink(target, relative); err != nil {
			return err
		}
		l.Stats.FilesLinked++
		return nil
	case pathops.Symlink:
		text, err := pathops.ReadLink(l.FS, target)
		if err != nil {
			return err
		}
		if text == relative {
			return nil
		}
		return l.resolveFileConflict(source, target, relative)
	default:
		return l.resolveFileConflict(source, target, relative)
	}
}

func (l *Linker) createDirectorySymlink(source, target string) error {
	relative := pathops.MakeRelative(source, target)

	kind, err := pathops.Classify(l.FS, target)
	if err != nil {
		return err
	}

	switch kind {
	case pathops.Missing:
		if err := l.writeSymlink(target, relative); err != nil {
			return err
		}
		l.Stats.DirsLinked++
		return nil
	case pathops.Symlink:
		text, err := pathops.ReadLink(l.FS, target)
		if err != nil {
			return err
		}
		if text == relative {
			return nil
		}
		return l.resolveDirConflict(source, target, relative)
	case pathops.Dir:
		if l.Options.TreeFolding == config.FoldAggressive && l.Options.ConflictResolution != config.ConflictAdopt {
			if foldable, err := l.analyzer.Foldable(l.sourceRoot, target); err == nil && foldable {
				if err := l.FS.RemoveAll(target); err != nil {
					return errors.Wrapf(err, errors.TransientIO, "removing %q", target)
				}
				if err := l.writeSymlink(target, relative); err != nil {
					return err
				}
				l.Stats.DirsLinked++
				return nil
			}
		}
		return l.resolveDirConflict(source, target, relative)
	default:
		return l.resolveDirConflict(source, target, relative)
	}
}

func (l *Linker) writeSymlink(target, relative string) error {
	if err := pathops.EnsureDirTree(l.FS, filepath.Dir(target)); err != nil {
		return err
	}
	if err := l.FS.Symlink(relative, target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "creating symlink %q -> %q", target, relative)
	}
	return nil
}

// resolveFileConflict / resolveDirConflict dispatch on
// LinkerOptions.conflict_resolution (spec.md §4.5).

func (l *Linker) resolveFileConflict(source, target, relative string) error {
	switch l.Options.ConflictResolution {
	case config.ConflictFail:
		return errors.Newf(errors.ConflictDetected, "existing entry at %q", target).WithDetail("target", target)
	case config.ConflictSkip:
		l.Stats.FilesSkipped++
		return nil
	case config.ConflictAdopt:
		return l.adoptFile(target, relative)
	case config.ConflictReplace:
		return l.replaceFile(target, relative)
	default:
		return errors.Newf(errors.FatalConfig, "unknown conflict resolution %q", l.Options.ConflictResolution)
	}
}

func (l *Linker) resolveDirConflict(source, target, relative string) error {
	switch l.Options.ConflictResolution {
	case config.ConflictFail:
		return errors.Newf(errors.ConflictDetected, "existing entry at %q", target).WithDetail("target", target)
	case config.ConflictSkip:
		l.Stats.FilesSkipped++
		return nil
	case config.ConflictAdopt:
		return l.adoptDirectory(source, target, relative)
	case config.ConflictReplace:
		return l.replaceDirectory(target, relative)
	default:
		return errors.Newf(errors.FatalConfig, "unknown conflict resolution %q", l.Options.ConflictResolution)
	}
}

// adoptFile implements spec.md §4.5.1's file-adoption sub-case.
func (l *Linker) adoptFile(target, relative string) error {
	if l.Options.BackupConflicts {
		if err := l.backup(target); err != nil {
			return err
		}
	} else if err := l.FS.Remove(target); err != nil {
		return errors.Wrapf(err, errors.TransientIO, "removing %q", target)
	}

	if err := l.writeSymlink(target, relative); err != nil {
		return err
	}
	l.Stats.FilesAdopted++
	l.Stats.ConflictsResolved++
	return nil
}

// adoptDirectory implements spec.md §4.5.1's directory-adoption
// sub-case: merge target into source (source wins on name collision),
// then replace target with a directory symlink.
func (l *Linker) adoptDirectory(source, target, relative string) error {
	if err := l.mergeIntoSource(target, source); err != nil {
		return err
	}

	if l.Options.BackupConflicts {
		if err := l.backup(target); err != nil {
			return err
		}
	} else if err := l.FS.RemoveAll(target); err != nil {
		return errors.Wrapf(err, errors.TransientIO, "removing %q", target)
	}

	if err := l.writeSymlink(target, relative); err != nil {
		return err
	}
	l.Stats.DirsLinked++
	l.Stats.ConflictsResolved++
	return nil
}

// replaceFile / replaceDirectory implement spec.md §4.5.2.

func (l *Linker) replaceFile(target, relative string) error {
	if l.Options.BackupConflicts {
		if err := l.backup(target); err != nil {
			return err
		}
	} else if err := l.FS.Remove(target); err != nil {
		return errors.Wrapf(err, errors.TransientIO, "removing %q", target)
	}

	if err := l.writeSymlink(target, relative); err != nil {
		return err
	}
	l.Stats.FilesLinked++
	l.Stats.ConflictsResolved++
	return nil
}

func (l *Linker) replaceDirectory(target, relative string) error {
	if l.Options.BackupConflicts {
		if err := l.backup(target); err != nil {
			return err
		}
	} else if err := l.FS.RemoveAll(target); err != nil {
		return errors.Wrapf(err, errors.TransientIO, "removing %q", target)
	}

	if err := l.writeSymlink(target, relative); err != nil {
		return err
	}
	l.Stats.DirsLinked++
	l.Stats.ConflictsResolved++
	return nil
}

// backup implements spec.md §4.5.3: rename target to its backup path,
// asking the prompt channel if a backup already exists there.
func (l *Linker) backup(target string) error {
	suffix := strings.TrimPrefix(l.Options.BackupSuffix, ".")
	backupPath := target + "." + suffix

	kind, err := pathops.Classify(l.FS, backupPath)
	if err != nil {
		return err
	}

	if kind != pathops.Missing {
		// Every prompt default in spec.md §6 is No (preserve the
		// existing backup).
		if !l.Prompt.AskYesNo(fmt.Sprintf("Replace existing backup file %q?", backupPath), false) {
			return errors.Newf(errors.BackupConflict, "backup %q already exists", backupPath).
				WithDetail("target", target).WithDetail("backup", backupPath)
		}
		if err := l.FS.RemoveAll(backupPath); err != nil {
			return errors.Wrapf(err, errors.TransientIO, "removing existing backup %q", backupPath)
		}
	}

	if err := l.FS.Rename(target, backupPath); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "backing up %q to %q", target, backupPath)
	}
	l.Stats.BackupsCreated++
	return nil
}

// mergeIntoSource walks targetDir and copies any entry missing from
// sourceDir into it; entries already present under sourceDir are left
// alone (source wins), recursing into directories present on both
// sides to merge nested content too.
func (l *Linker) mergeIntoSource(targetDir, sourceDir string) error {
	entries, err := l.FS.ReadDir(targetDir)
	if err != nil {
		return errors.Wrapf(err, errors.TransientIO, "reading %q", targetDir)
	}

	for _, entry := range entries {
		name := entry.Name()
		srcPath := filepath.Join(sourceDir, name)
		tgtPath := filepath.Join(targetDir, name)

		srcKind, err := pathops.Classify(l.FS, srcPath)
		if err != nil {
			return err
		}

		if srcKind == pathops.Missing {
			if err := l.copyTree(tgtPath, srcPath); err != nil {
				return err
			}
			continue
		}

		if srcKind == pathops.Dir {
			tgtKind, err := pathops.Classify(l.FS, tgtPath)
			if err != nil {
				return err
			}
			if tgtKind == pathops.Dir {
				if err := l.mergeIntoSource(tgtPath, srcPath); err != nil {
					return err
				}
			}
		}
		// Otherwise source already owns this name: the target's copy is
		// discarded when the caller removes/backs up targetDir.
	}

	return nil
}

// copyTree recursively copies src (under the target tree) into dst
// (under the source module), preserving symlinks literally.
func (l *Linker) copyTree(src, dst string) error {
	kind, err := pathops.Classify(l.FS, src)
	if err != nil {
		return err
	}

	switch kind {
	case pathops.Symlink:
		text, err := pathops.ReadLink(l.FS, src)
		if err != nil {
			return err
		}
		if err := l.FS.Symlink(text, dst); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "copying symlink to %q", dst)
		}
		return nil
	case pathops.Dir:
		if err := l.FS.MkdirAll(dst, 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "creating %q", dst)
		}
		entries, err := l.FS.ReadDir(src)
		if err != nil {
			return errors.Wrapf(err, errors.TransientIO, "reading %q", src)
		}
		for _, e := range entries {
			if err := l.copyTree(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
				return err
			}
		}
		return nil
	case pathops.File:
		data, err := l.FS.ReadFile(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "reading %q", src)
		}
		if err := l.FS.WriteFile(dst, data, 0o644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "writing %q", dst)
		}
		return nil
	default:
		return errors.Newf(errors.TransientIO, "cannot adopt %q: unsupported entry kind %s", src, kind)
	}
}

// Unlink implements spec.md §4.5.4: traverse the module's source tree
// and delete only the symlinks under targetBase that this module
// itself would have created, leaving foreign content untouched.
func (l *Linker) Unlink(sourceRoot, targetBase string) error {
	return l.unlinkDir(sourceRoot, targetBase, "")
}

func (l *Linker) unlinkDir(sourceDir, targetBase, rel string) error {
	entries, err := l.FS.ReadDir(sourceDir)
	if err != nil {
		return errors.Wrapf(err, errors.SourceUnreadable, "reading %q", sourceDir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == module.DescriptorName || matcher.MatchesAny(name, l.Options.IgnorePatterns) {
			continue
		}

		childRel := name
		if rel != "" {
			childRel = filepath.Join(rel, name)
		}
		childSource := filepath.Join(sourceDir, name)
		childTarget := filepath.Join(targetBase, childRel)
		relative := pathops.MakeRelative(childSource, childTarget)

		isLink, err := pathops.IsSymlink(l.FS, childTarget)
		if err != nil {
			return err
		}
		if isLink {
			text, err := pathops.ReadLink(l.FS, childTarget)
			if err != nil {
				return err
			}
			if text == relative {
				if err := l.FS.Remove(childTarget); err != nil {
					return errors.Wrapf(err, errors.TransientIO, "removing %q", childTarget)
				}
			}
			// A foreign symlink (content doesn't match) is left alone,
			// and not recursed into even if the source entry is a
			// directory: we never descend through a symlink we don't own.
			continue
		}

		if !entry.IsDir() {
			// Source entry is a file/symlink; target is missing or a
			// foreign non-link entry. Nothing to unlink.
			continue
		}

		kind, err := pathops.Classify(l.FS, childTarget)
		if err != nil {
			return err
		}
		if kind != pathops.Dir {
			// Missing target: nothing below it to unlink.
			continue
		}
		if err := l.unlinkDir(childSource, targetBase, childRel); err != nil {
			return err
		}
	}

	return nil
}
