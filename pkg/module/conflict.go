package module

import (
	"path/filepath"

	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/pathops"
)

// ConflictKind classifies what the scanner finds at a module's
// deployment target path, before the Linker runs (spec.md §4.3).
type ConflictKind string

const (
	NoConflict        ConflictKind = "no_conflict"
	ExistingSymlink   ConflictKind = "existing_symlink"
	ExistingDirectory ConflictKind = "existing_directory"
	ExistingFile      ConflictKind = "existing_file"
)

// PreviewConflict reports whether deploying m to targetBase/m.Name
// would conflict, without mutating anything. If the existing entry is
// a symlink, linkText holds its literal content.
func (s *Scanner) PreviewConflict(m Module, targetBase string) (kind ConflictKind, linkText string, err error) {
	targetPath := filepath.Join(targetBase, m.Name)

	k, err := pathops.Classify(s.FS, targetPath)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.TransientIO, "classifying %q", targetPath)
	}

	switch k {
	case pathops.Missing:
		return NoConflict, "", nil
	case pathops.Symlink:
		text, err := pathops.ReadLink(s.FS, targetPath)
		if err != nil {
			return "", "", err
		}
		// Matches the idempotence check in pkg/linker: the link already
		// points at the canonical module path iff its literal text is
		// exactly the relative text the Linker would itself write.
		if text == pathops.MakeRelative(m.Path, targetPath) {
			return NoConflict, text, nil
		}
		return ExistingSymlink, text, nil
	case pathops.Dir:
		return ExistingDirectory, "", nil
	default:
		return ExistingFile, "", nil
	}
}
