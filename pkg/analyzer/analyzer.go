// Package analyzer implements the TreeAnalyzer (spec.md §4.4): a
// pre-pass over a module's source tree that decides, for every
// directory in it, whether the corresponding target directory can be
// collapsed into a single "folded" symlink or must be materialized as
// a real directory containing per-entry symlinks.
package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/matcher"
	"github.com/ndmgr/ndmgr/pkg/pathops"
)

// TreeAnalysis maps a module-relative directory path to whether the
// corresponding target directory can be folded into one symlink.
type TreeAnalysis struct {
	Foldable map[string]bool
}

// IsFoldable reports the foldable flag for relative directory path r
// ("" for entries directly under the module root). Unanalyzed paths
// default to false (conservative: materialize a real directory).
func (t *TreeAnalysis) IsFoldable(r string) bool {
	return t.Foldable[r]
}

// Analyzer builds a TreeAnalysis for one module against one target base.
type Analyzer struct {
	FS                 filesystem.FS
	IgnorePatterns     []string
	TreeFolding        config.TreeFolding
	ConflictResolution config.ConflictResolution
}

// Analyze walks modulePath (the canonical source directory for one
// module) and returns the TreeAnalysis describing how its subtrees
// fold against targetDir: a directory at relative path r under
// modulePath is checked against targetDir/r.
func (a *Analyzer) Analyze(modulePath, targetDir string) (*TreeAnalysis, error) {
	analysis := &TreeAnalysis{Foldable: map[string]bool{}}
	visited := map[string]struct{}{}
	if err := a.analyzeDir(modulePath, modulePath, targetDir, "", analysis, visited); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (a *Analyzer) analyzeDir(moduleRoot, sourceDir, targetDir, rel string, analysis *TreeAnalysis, visited map[string]struct{}) error {
	entries, err := a.FS.ReadDir(sourceDir)
	if err != nil {
		return errors.Wrapf(err, errors.SourceUnreadable, "reading %q", sourceDir)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if matcher.MatchesAny(name, a.IgnorePatterns) {
			continue
		}

		childRel := name
		if rel != "" {
			childRel = filepath.Join(rel, name)
		}
		childSource := filepath.Join(sourceDir, name)
		childTarget := filepath.Join(targetDir, childRel)

		foldable, err := a.foldableFor(moduleRoot, childTarget)
		if err != nil {
			return err
		}
		analysis.Foldable[childRel] = foldable

		if foldable {
			continue
		}

		if canon, err := pathops.Canonicalize(childSource); err == nil {
			if _, seen := visited[canon]; seen {
				continue
			}
			visited[canon] = struct{}{}
		}

		if err := a.analyzeDir(moduleRoot, childSource, targetDir, childRel, analysis, visited); err != nil {
			return err
		}
	}

	return nil
}

// Foldable reports whether targetDir can currently be folded for the
// module rooted at moduleRoot, applying the same rule Analyze uses.
// The Linker calls this for a live re-check when it meets an existing
// directory under Aggressive folding that Analyze had to classify
// before any linking happened (spec.md §4.5's "additionally, if
// folding strategy is Aggressive ... re-run the directory-level
// check" clause).
func (a *Analyzer) Foldable(moduleRoot, targetDir string) (bool, error) {
	return a.foldableFor(moduleRoot, targetDir)
}

func (a *Analyzer) foldableFor(moduleRoot, targetDir string) (bool, error) {
	kind, err := pathops.Classify(a.FS, targetDir)
	if err != nil {
		return false, err
	}

	switch kind {
	case pathops.Missing, pathops.Symlink:
		return true, nil
	case pathops.Dir:
		if a.ConflictResolution == config.ConflictAdopt {
			return true, nil
		}
		if a.TreeFolding == config.FoldDirectory {
			return false, nil
		}
		return a.aggressivelyFoldable(moduleRoot, targetDir)
	default:
		return false, nil
	}
}

// aggressivelyFoldable implements the Aggressive folding rule: a
// non-empty existing directory is still foldable if every entry in it
// is a symlink resolving into the module's source root (already-managed
// content); mixed or foreign content forces false.
func (a *Analyzer) aggressivelyFoldable(moduleRoot, targetDir string) (bool, error) {
	entries, err := a.FS.ReadDir(targetDir)
	if err != nil {
		return false, errors.Wrapf(err, errors.TransientIO, "reading %q", targetDir)
	}
	if len(entries) == 0 {
		return true, nil
	}

	for _, entry := range entries {
		if matcher.MatchesAny(entry.Name(), a.IgnorePatterns) {
			continue
		}

		entryPath := filepath.Join(targetDir, entry.Name())
		isLink, err := pathops.IsSymlink(a.FS, entryPath)
		if err != nil {
			return false, err
		}
		if !isLink {
			return false, nil
		}

		linkText, err := pathops.ReadLink(a.FS, entryPath)
		if err != nil {
			return false, err
		}
		dest := linkText
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(entryPath), dest)
		}
		if !strings.HasPrefix(dest, moduleRoot) {
			return false, nil
		}
	}

	return true, nil
}
