package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/style"
	"github.com/ndmgr/ndmgr/pkg/vcs"
)

// RepoStatus reports what Sync did (or tried to do) with one tracked
// repository.
type RepoStatus string

const (
	RepoCloned    RepoStatus = "cloned"
	RepoSynced    RepoStatus = "synced"
	RepoCommitted RepoStatus = "committed"
	RepoFailed    RepoStatus = "failed"
)

// RepoResult is the outcome for one [[repository]] entry.
type RepoResult struct {
	Repository config.Repository
	Status     RepoStatus
	Err        error
}

// SyncReport aggregates RepoResults across every configured repository.
type SyncReport struct {
	Results []RepoResult
}

func (r SyncReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == RepoFailed {
			n++
		}
	}
	return n
}

// SyncOptions configures a Sync call: the sync workflow spec.md §6
// describes as the collaborator's sibling to the linking core, never
// invoked by pkg/linker or pkg/deployer.
type SyncOptions struct {
	VCS          vcs.Collaborator
	Repositories []config.Repository
	Git          config.Git
}

// Sync clones any repository that doesn't yet exist at its configured
// path, auto-commits local changes when the repository asks for it,
// then pulls and pushes the configured branch.
func Sync(ctx context.Context, opts SyncOptions) SyncReport {
	logger := logging.GetLogger("engine.sync")

	var results []RepoResult
	for _, repo := range opts.Repositories {
		res := RepoResult{Repository: repo}

		exists, err := opts.VCS.IsRepo(ctx, repo.Path)
		if err != nil {
			results = append(results, failed(res, err))
			continue
		}

		if !exists {
			if err := opts.VCS.Clone(ctx, repo.Remote, repo.Path, repo.Branch); err != nil {
				results = append(results, failed(res, err))
				continue
			}
			res.Status = RepoCloned
			logger.Info().Str("repository", repo.Name).Msg("cloned")
			results = append(results, res)
			continue
		}

		if repo.AutoCommit {
			dirty, err := opts.VCS.HasChanges(ctx, repo.Path)
			if err != nil {
				results = append(results, failed(res, err))
				continue
			}
			if dirty {
				if err := opts.VCS.Commit(ctx, repo.Path, commitMessage(opts.Git, repo), true); err != nil {
					results = append(results, failed(res, err))
					continue
				}
				res.Status = RepoCommitted
			}
		}

		if err := opts.VCS.Pull(ctx, repo.Path, repo.Branch); err != nil {
			results = append(results, failed(res, err))
			continue
		}
		if err := opts.VCS.Push(ctx, repo.Path, repo.Branch, false); err != nil {
			results = append(results, failed(res, err))
			continue
		}

		if res.Status == "" {
			res.Status = RepoSynced
		}
		logger.Info().Str("repository", repo.Name).Str("status", string(res.Status)).Msg("sync finished")
		results = append(results, res)
	}

	return SyncReport{Results: results}
}

func failed(res RepoResult, err error) RepoResult {
	res.Status = RepoFailed
	res.Err = err
	return res
}

// commitMessage renders the [git] commit_message_template against the
// repository being committed ({{name}} and {date}), falling back to a
// fixed message when no template is configured.
func commitMessage(git config.Git, repo config.Repository) string {
	if git.CommitMessageTemplate == "" {
		return fmt.Sprintf("ndmgr: sync %s", repo.Name)
	}
	msg := style.RenderTemplate(git.CommitMessageTemplate, map[string]string{"name": repo.Name})
	return config.RenderCommitMessage(msg, time.Now())
}
