package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndmgr/ndmgr/pkg/deployer"
	"github.com/ndmgr/ndmgr/pkg/engine"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/module"
	"github.com/ndmgr/ndmgr/pkg/style"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy every module in the dotfiles root",
	Long: `Deploy scans the dotfiles root for modules and symlinks each one onto
the target tree, honoring each module's .ndmgr overrides and the
configured conflict, adoption, and folding policies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.deploy")

		source, err := dotfilesRoot()
		if err != nil {
			return err
		}
		_, target, err := homeAndTarget()
		if err != nil {
			return err
		}

		if dryRun {
			return previewDeploy(source, target)
		}

		report, err := engine.Deploy(engine.DeployOptions{
			FS:             rootFS(),
			Prompt:         newPromptHandler(),
			SourceRoot:     source,
			TargetBase:     target,
			HomeDir:        target,
			ScanDepth:      scanDepth(),
			IgnorePatterns: cfg.Linking.IgnorePatterns,
			Linker:         linkerOptions(),
		})
		for _, result := range report.Results {
			st := style.StatusLinked
			detail := ""
			switch result.Status {
			case deployer.StatusSkipped:
				st = style.StatusIgnored
			case deployer.StatusFailed:
				st = style.StatusError
				if result.Err != nil {
					detail = result.Err.Error()
				}
			}
			fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: result.Module.Name, Status: st, Detail: detail}))
		}
		if err != nil {
			return err
		}

		logger.Info().Int("successful", report.Successful()).Int("failed", report.Failed()).Msg("deploy finished")
		return exitOnReportFailure(report.Failed())
	},
}

func previewDeploy(source, target string) error {
	scanner := module.NewScanner(rootFS(), cfg.Linking.IgnorePatterns, scanDepth())
	modules, err := scanner.Scan(source)
	if err != nil {
		return err
	}
	for _, m := range modules {
		if m.Ignore {
			fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusIgnored}))
			continue
		}
		kind, linkText, err := scanner.PreviewConflict(m, target)
		if err != nil {
			fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusError, Detail: err.Error()}))
			continue
		}
		if kind == module.NoConflict {
			fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusLinked, Detail: "would link"}))
		} else {
			fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusConflict, Detail: string(kind) + ": " + linkText}))
		}
	}
	return nil
}
