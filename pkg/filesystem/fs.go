package filesystem

import "io/fs"

// FS is the filesystem interface required by every ndmgr operation. It is
// small enough to be satisfied by both the real OS and an in-memory fake,
// and it is the only way pkg/pathops, pkg/module, pkg/analyzer, pkg/linker,
// pkg/deployer, and pkg/simpleunlink ever touch disk.
type FS interface {
	// Stat follows symlinks; Lstat does not.
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)

	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
