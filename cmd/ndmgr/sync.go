package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndmgr/ndmgr/pkg/engine"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/style"
	"github.com/ndmgr/ndmgr/pkg/vcs/gogit"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clone, commit, pull, and push every configured [[repository]]",
	Long: `Sync drives the version-control side of ndmgr: any repository entry
without a working copy yet is cloned (and not pulled or pushed in the
same run); existing ones are optionally auto-committed, then pulled and
pushed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.sync")

		if len(cfg.Repositories) == 0 {
			fmt.Println("no [[repository]] entries configured")
			return nil
		}

		report := engine.Sync(context.Background(), engine.SyncOptions{
			VCS:          gogit.New(),
			Repositories: cfg.Repositories,
			Git:          cfg.Git,
		})

		failed := 0
		for _, result := range report.Results {
			st := style.StatusLinked
			detail := ""
			switch result.Status {
			case engine.RepoFailed:
				st = style.StatusError
				failed++
				if result.Err != nil {
					detail = result.Err.Error()
				}
			case engine.RepoCloned:
				detail = "cloned"
			case engine.RepoCommitted:
				detail = "committed and synced"
			}
			fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: result.Repository.Name, Status: st, Detail: detail}))
		}

		logger.Info().Int("total", len(report.Results)).Int("failed", failed).Msg("sync finished")
		return exitOnReportFailure(failed)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
