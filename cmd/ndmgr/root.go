package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/linker"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/pathops"
	"github.com/ndmgr/ndmgr/pkg/prompt"
)

var (
	verbosity  int
	dryRun     bool
	force      bool
	configPath string

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "ndmgr",
		Short: "A symlink-farm dotfiles deployer",
		Long: `ndmgr deploys a dotfiles repository onto your home directory (or any
target tree) as a farm of relative symlinks, one module at a time, with
conflict, adoption, and tree-folding policies you configure once in
.ndmgr.toml.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")

			loaded, err := config.Load(os.Getenv("DOTFILES_ROOT"), configPath)
			if err != nil {
				return errors.Wrap(err, errors.ErrConfigLoad, "loading configuration")
			}
			if err := loaded.Validate(); err != nil {
				return errors.Wrap(err, errors.ErrConfigInvalid, "validating configuration")
			}
			cfg = loaded
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "preview changes without executing them")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "answer every confirmation prompt without asking")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an explicit ndmgr.toml, applied after every other config layer")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(relinkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// dotfilesRoot resolves the source root for every subcommand: the
// DOTFILES_ROOT environment variable, since ndmgr — like the teacher —
// has no notion of a default dotfiles location baked into the binary.
func dotfilesRoot() (string, error) {
	root := os.Getenv("DOTFILES_ROOT")
	if root == "" {
		return "", errors.New(errors.ErrInvalidInput, "DOTFILES_ROOT environment variable not set")
	}
	return root, nil
}

// targetOverride resolves the per-invocation --target DIR flag (spec.md
// §6.8's "link [modules...] [--target DIR]"). An empty string means no
// override was given; callers fall back to homeAndTarget's resolution.
func targetOverride(flagValue, home string) (string, error) {
	if flagValue == "" {
		return "", nil
	}
	return pathops.Expand(flagValue, home)
}

// homeAndTarget resolves $HOME once, per SPEC_FULL.md §9's "no global
// ambient state" note: the CLI layer is the only place that touches
// the environment, and everything below it takes the result as a
// parameter.
func homeAndTarget() (home string, target string, err error) {
	home, err = pathops.DefaultHomeResolver()
	if err != nil {
		return "", "", errors.Wrap(err, errors.NoHomeDirectory, "resolving home directory")
	}
	target = home
	if cfg != nil && cfg.Settings.DefaultTarget != "" {
		expanded, expErr := pathops.Expand(cfg.Settings.DefaultTarget, home)
		if expErr == nil {
			target = expanded
		}
	}
	return home, target, nil
}

func forceMode() prompt.ForceMode {
	if force {
		return prompt.ForceYes
	}
	return prompt.ForceNone
}

func newPromptHandler() prompt.Handler {
	return prompt.NewCLIHandler(forceMode(), os.Stdin, os.Stdout)
}

func linkerOptions() linker.Options {
	return linker.Options{
		IgnorePatterns:     cfg.Linking.IgnorePatterns,
		ConflictResolution: cfg.Linking.ConflictResolution,
		TreeFolding:        cfg.Linking.TreeFolding,
		BackupConflicts:    cfg.Linking.BackupConflicts,
		BackupSuffix:       config.RenderBackupSuffix(cfg.Linking.BackupSuffix, time.Now()),
		ForceMode:          forceMode(),
		Verbose:            verbosity > 0,
	}
}

func scanDepth() uint32 {
	if cfg.Linking.ScanDepth == 0 {
		return 1
	}
	return cfg.Linking.ScanDepth
}

func rootFS() filesystem.FS {
	return filesystem.NewOS()
}

func exitOnReportFailure(failed int) error {
	if failed > 0 {
		return fmt.Errorf("%d module(s) failed", failed)
	}
	return nil
}
