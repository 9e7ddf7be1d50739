package testutil

import (
	"github.com/ndmgr/ndmgr/pkg/filesystem"
)

// NewTestFS creates a new afero-backed in-memory filesystem for tests
// that don't depend on real symlink semantics. Tests that need to
// distinguish a dangling symlink from a missing path use NewMemoryFS
// instead.
func NewTestFS() filesystem.FS {
	return filesystem.NewMemFS()
}
