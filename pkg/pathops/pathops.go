// Package pathops provides the pure path helpers used throughout ndmgr:
// tilde/$HOME expansion, absolute path canonicalization, symlink
// classification, and relative-link computation. Most functions here are
// helpers against explicit parameters. Three read process state:
// DefaultHomeResolver (the user's home directory / $HOME), Canonicalize
// (relative paths resolve against the working directory) and
// FindGitRoot (runs git in the working directory).
package pathops

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
)

// Kind classifies what exists at a path.
type Kind string

const (
	Missing Kind = "missing"
	File    Kind = "file"
	Dir     Kind = "dir"
	Symlink Kind = "symlink"
	Other   Kind = "other"
)

func (k Kind) String() string { return string(k) }

// DefaultHomeResolver wraps os.UserHomeDir for the CLI layer. Core
// packages never call this directly; they take an explicit homeDir
// parameter, per the no-implicit-cwd-dependency design.
func DefaultHomeResolver() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home, nil
	}
	if h := os.Getenv("HOME"); h != "" {
		return h, nil
	}
	return "", errors.New(errors.NoHomeDirectory, "could not resolve a home directory")
}

// Expand replaces a leading "~" or "$HOME" with homeDir. "~/x" and
// "$HOME/x" expand the prefix and keep the remainder; a bare "~" or
// "$HOME" returns homeDir itself; anything else is returned unchanged.
// If expansion is required and homeDir is empty, returns NoHomeDirectory.
func Expand(path, homeDir string) (string, error) {
	if path == "~" || path == "$HOME" {
		if homeDir == "" {
			return "", errors.New(errors.NoHomeDirectory, "cannot expand "+path+": no home directory")
		}
		return homeDir, nil
	}

	for _, prefix := range []string{"~/", "$HOME/"} {
		if strings.HasPrefix(path, prefix) {
			if homeDir == "" {
				return "", errors.New(errors.NoHomeDirectory, "cannot expand "+path+": no home directory")
			}
			return filepath.Join(homeDir, strings.TrimPrefix(path, prefix)), nil
		}
	}

	return path, nil
}

// Canonicalize resolves path to an absolute path, following intermediate
// symlinks via filepath.EvalSymlinks. Relative paths are resolved
// against the process working directory (there is no explicit-cwd
// variant because canonicalization is inherently OS/cwd dependent).
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to make %q absolute", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The target may not exist yet (e.g. a link we're about to
		// create); fall back to the cleaned absolute path.
		return filepath.Clean(abs), nil
	}
	return resolved, nil
}

// IsSymlink reports whether path itself is a symlink, without following it.
func IsSymlink(fs filesystem.FS, path string) (bool, error) {
	info, err := fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.TransientIO, "lstat %q", path)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ReadLink returns the literal link target text stored at path.
func ReadLink(fs filesystem.FS, path string) (string, error) {
	target, err := fs.Readlink(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.TransientIO, "readlink %q", path)
	}
	return target, nil
}

// Classify reports what exists at path. A dangling symlink (one whose
// target does not exist) is reported as Symlink, not Missing.
func Classify(fs filesystem.FS, path string) (Kind, error) {
	info, err := fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Missing, nil
		}
		return Other, errors.Wrapf(err, errors.TransientIO, "lstat %q", path)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return Symlink, nil
	case mode.IsDir():
		return Dir, nil
	case mode.IsRegular():
		return File, nil
	default:
		return Other, nil
	}
}

// MakeRelative computes the relative path text to store in a symlink at
// targetAbs so that it resolves to sourceAbs: the relative path from
// the directory containing targetAbs to sourceAbs. Both inputs must
// already be absolute. Returns "." if source and target's parent are
// the same directory.
func MakeRelative(sourceAbs, targetAbs string) string {
	targetDir := filepath.Dir(targetAbs)

	srcParts := splitClean(sourceAbs)
	dstParts := splitClean(targetDir)

	i := 0
	for i < len(srcParts) && i < len(dstParts) && srcParts[i] == dstParts[i] {
		i++
	}

	var rel []string
	for range dstParts[i:] {
		rel = append(rel, "..")
	}
	rel = append(rel, srcParts[i:]...)

	if len(rel) == 0 {
		return "."
	}
	return filepath.Join(rel...)
}

func splitClean(path string) []string {
	clean := filepath.Clean(path)
	clean = strings.TrimPrefix(clean, string(filepath.Separator))
	if clean == "" || clean == "." {
		return nil
	}
	return strings.Split(clean, string(filepath.Separator))
}

// EnsureDirTree creates path and every missing ancestor directory.
// It is not an error for path to already exist.
func EnsureDirTree(fs filesystem.FS, path string) error {
	if err := fs.MkdirAll(path, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory tree %q", path)
	}
	return nil
}

// FindGitRoot returns the top-level directory of the git repository
// containing the process working directory, or an error if none is
// found or git is unavailable. Used only by the CLI layer to default a
// source root; the core packages never shell out.
func FindGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "not inside a git repository")
	}
	root := strings.TrimSpace(string(output))
	if root == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return root, nil
}
