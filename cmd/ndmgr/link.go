package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndmgr/ndmgr/pkg/engine"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/style"
)

var linkTarget string

var linkCmd = &cobra.Command{
	Use:   "link [modules...]",
	Short: "Link one or more modules",
	Long: `Link runs the Linker over the named modules (every module in the
dotfiles root if none are named), creating symlinks under the target
tree and resolving conflicts per the configured policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.link")

		source, err := dotfilesRoot()
		if err != nil {
			return err
		}
		home, target, err := homeAndTarget()
		if err != nil {
			return err
		}
		if override, err := targetOverride(linkTarget, home); err != nil {
			return err
		} else if override != "" {
			target = override
		}

		report, err := engine.Link(engine.Options{
			FS:             rootFS(),
			Prompt:         newPromptHandler(),
			SourceRoot:     source,
			TargetBase:     target,
			HomeDir:        target,
			Modules:        args,
			ScanDepth:      scanDepth(),
			IgnorePatterns: cfg.Linking.IgnorePatterns,
			Linker:         linkerOptions(),
		})
		renderEngineReport(report)
		if err != nil {
			return err
		}

		logger.Info().Int("successful", report.Successful()).Int("failed", report.Failed()).Msg("link finished")
		return exitOnReportFailure(report.Failed())
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkTarget, "target", "", "target directory for this invocation, overriding the configured default")
}

func renderEngineReport(report engine.Report) {
	for _, result := range report.Results {
		st := style.StatusLinked
		detail := ""
		switch result.Status {
		case engine.StatusSkipped:
			st = style.StatusIgnored
		case engine.StatusFailed:
			st = style.StatusError
			if result.Err != nil {
				detail = result.Err.Error()
			}
		}
		fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: result.Module.Name, Status: st, Detail: detail}))
	}
}
