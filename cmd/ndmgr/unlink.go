package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndmgr/ndmgr/pkg/engine"
	"github.com/ndmgr/ndmgr/pkg/logging"
)

var unlinkTarget string

var unlinkCmd = &cobra.Command{
	Use:   "unlink [modules...]",
	Short: "Remove the symlinks for one or more modules",
	Long: `Unlink runs the Linker's lockstep unlink walk over the named modules
(every module in the dotfiles root if none are named). A target that
isn't our own link is left alone, so unlink is safe to repeat.

Named with a bare module and no DOTFILES_ROOT/--target in scope, unlink
falls back to the SimpleUnlinker (spec.md §4.7): it treats the module
name as a path under the current directory and walks the effective
target for symlinks pointing back into it, rather than requiring a
full module scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.unlink")

		source, sourceErr := dotfilesRoot()
		if sourceErr != nil && unlinkTarget == "" && len(args) == 1 {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			home, _, err := homeAndTarget()
			if err != nil {
				return err
			}
			count, err := engine.SimpleUnlink(engine.SimpleUnlinkOptions{
				FS:         rootFS(),
				Cwd:        cwd,
				ModuleName: args[0],
				HomeDir:    home,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s: removed %d symlink(s)\n", args[0], count)
			logger.Info().Str("module", args[0]).Int("removed", count).Msg("simple unlink finished")
			return nil
		}
		if sourceErr != nil {
			return sourceErr
		}

		home, target, err := homeAndTarget()
		if err != nil {
			return err
		}
		if override, err := targetOverride(unlinkTarget, home); err != nil {
			return err
		} else if override != "" {
			target = override
		}

		report, err := engine.Unlink(engine.Options{
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

		logger.Info().Int("successful", report.Successful()).Int("failed", report.Failed()).Msg("unlink finished")
		return exitOnReportFailure(report.Failed())
	},
}

func init() {
	unlinkCmd.Flags().StringVar(&unlinkTarget, "target", "", "target directory for this invocation, overriding the configured default")
}

var relinkCmd = &cobra.Command{
	Use:   "relink [modules...]",
	Short: "Unlink then link one or more modules",
	Long: `Relink is unlink immediately followed by link over the same module
selection — useful after editing a module's .ndmgr overrides or its
tree-folding shape, where a stale symlink needs replacing rather than
left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.relink")

		source, err := dotfilesRoot()
		if err != nil {
			return err
		}
		_, target, err := homeAndTarget()
		if err != nil {
			return err
		}

		opts := engine.Options{
			FS:             rootFS(),
			Prompt:         newPromptHandler(),
			SourceRoot:     source,
			TargetBase:     target,
			HomeDir:        target,
			Modules:        args,
			ScanDepth:      scanDepth(),
			IgnorePatterns: cfg.Linking.IgnorePatterns,
			Linker:         linkerOptions(),
		}

		if _, err := engine.Unlink(opts); err != nil {
			return fmt.Errorf("unlink phase: %w", err)
		}

		report, err := engine.Link(opts)
		renderEngineReport(report)
		if err != nil {
			return err
		}

		logger.Info().Int("successful", report.Successful()).Int("failed", report.Failed()).Msg("relink finished")
		return exitOnReportFailure(report.Failed())
	},
}
