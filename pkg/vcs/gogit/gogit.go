// Package gogit implements pkg/vcs.Collaborator on top of go-git, so
// ndmgr's sync workflow never shells out to a git binary.
package gogit

import (
	"context"
	"errors"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	ndmgrerrors "github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/vcs"
)

const (
	authorName  = "ndmgr"
	authorEmail = "noreply@ndmgr"
)

// Collaborator implements vcs.Collaborator via go-git.
type Collaborator struct{}

var _ vcs.Collaborator = (*Collaborator)(nil)

// New constructs a go-git-backed Collaborator.
func New() *Collaborator { return &Collaborator{} }

func (c *Collaborator) IsRepo(_ context.Context, path string) (bool, error) {
	_, err := gogit.PlainOpen(path)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return false, nil
		}
		return false, ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "opening %q", path)
	}
	return true, nil
}

func (c *Collaborator) Clone(_ context.Context, remote, path, branch string) error {
	opts := &gogit.CloneOptions{URL: remote}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}
	_, err := gogit.PlainClone(path, false, opts)
	if err != nil {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSRemote, "cloning %q into %q", remote, path)
	}
	return nil
}

func (c *Collaborator) Pull(_ context.Context, path, branch string) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return notRepoErr(path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "getting worktree for %q", path)
	}

	opts := &gogit.PullOptions{RemoteName: "origin"}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	err = wt.Pull(opts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSRemote, "pulling %q", path)
	}
	return nil
}

func (c *Collaborator) Push(_ context.Context, path, branch string, force bool) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return notRepoErr(path, err)
	}

	opts := &gogit.PushOptions{RemoteName: "origin", Force: force}
	if branch != "" {
		ref := plumbing.NewBranchReferenceName(branch)
		opts.RefSpecs = []config.RefSpec{config.RefSpec(ref + ":" + ref)}
	}

	err = repo.Push(opts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSRemote, "pushing %q", path)
	}
	return nil
}

func (c *Collaborator) HasChanges(_ context.Context, path string) (bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return false, notRepoErr(path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "getting worktree for %q", path)
	}

	status, err := wt.Status()
	if err != nil {
		return false, ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "getting status for %q", path)
	}

	return !status.IsClean(), nil
}

func (c *Collaborator) Commit(_ context.Context, path, message string, addAll bool) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return notRepoErr(path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "getting worktree for %q", path)
	}

	if addAll {
		if _, err := wt.Add("."); err != nil {
			return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "staging changes in %q", path)
		}
	}

	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()},
	})
	if err != nil {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "committing in %q", path)
	}
	return nil
}

func (c *Collaborator) SwitchBranch(_ context.Context, path, branch string, create bool) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return notRepoErr(path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "getting worktree for %q", path)
	}

	ref := plumbing.NewBranchReferenceName(branch)

	err = wt.Checkout(&gogit.CheckoutOptions{Branch: ref})
	if err == nil {
		return nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "checking out %q in %q", branch, path)
	}
	if !create {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "branch %q does not exist in %q", branch, path)
	}

	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: ref, Create: true}); err != nil {
		return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSOperation, "creating branch %q in %q", branch, path)
	}
	return nil
}

func notRepoErr(path string, err error) error {
	return ndmgrerrors.Wrapf(err, ndmgrerrors.ErrVCSNotRepo, "opening %q", path).WithDetail("path", path)
}
