// Package vcs defines the VCS collaborator interface (spec.md §6): the
// contract ndmgr's sync workflow uses against a dotfiles repository,
// kept separate from the linking core so pkg/linker and pkg/deployer
// never depend on it.
package vcs

import "context"

// Collaborator is the method set spec.md §6 assigns to the VCS
// collaborator. Every method takes a context since each one can block
// on a subprocess or network round trip, matching the teacher's practice
// of threading context.Context only through genuinely blocking calls.
type Collaborator interface {
	// IsRepo reports whether path is the working directory of a
	// repository this collaborator can operate on.
	IsRepo(ctx context.Context, path string) (bool, error)

	// Clone clones remote into path. An empty branch clones the
	// remote's default branch.
	Clone(ctx context.Context, remote, path, branch string) error

	// Pull fetches and merges/fast-forwards branch at path. An empty
	// branch pulls whatever branch is currently checked out.
	Pull(ctx context.Context, path, branch string) error

	// Push pushes branch at path to its configured remote. An empty
	// branch pushes whatever branch is currently checked out. force
	// requests a non-fast-forward push.
	Push(ctx context.Context, path, branch string, force bool) error

	// HasChanges reports whether the working tree at path has
	// uncommitted changes (staged or unstaged).
	HasChanges(ctx context.Context, path string) (bool, error)

	// Commit commits the currently staged changes at path with message.
	// When addAll is true, every change in the working tree (not just
	// what's already staged) is staged first.
	Commit(ctx context.Context, path, message string, addAll bool) error

	// SwitchBranch checks out branch at path. When create is true and
	// the branch does not already exist, it is created from the
	// current HEAD; when false, a missing branch is an error.
	SwitchBranch(ctx context.Context, path, branch string, create bool) error
}
