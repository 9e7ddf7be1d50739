package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndmgr/ndmgr/pkg/module"
	"github.com/ndmgr/ndmgr/pkg/pathops"
	"github.com/ndmgr/ndmgr/pkg/style"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the link state of every module",
	Long: `Status scans the dotfiles root and, for each module, reports whether
its target is already linked, missing, or in conflict — without
changing anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := dotfilesRoot()
		if err != nil {
			return err
		}
		_, target, err := homeAndTarget()
		if err != nil {
			return err
		}

		scanner := module.NewScanner(rootFS(), cfg.Linking.IgnorePatterns, scanDepth())
		modules, err := scanner.Scan(source)
		if err != nil {
			return err
		}

		for _, m := range modules {
			effectiveTarget := target
			if m.TargetDir != "" {
				if expanded, expErr := pathops.Expand(m.TargetDir, target); expErr == nil {
					effectiveTarget = expanded
				}
			}

			if m.Ignore {
				fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusIgnored}))
				continue
			}

			kind, linkText, err := scanner.PreviewConflict(m, effectiveTarget)
			if err != nil {
				fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusError, Detail: err.Error()}))
				continue
			}

			switch {
			case kind == module.NoConflict && linkText != "":
				fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusLinked}))
			case kind == module.NoConflict:
				fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusSkipped, Detail: "not deployed"}))
			default:
				fmt.Println(style.RenderTargetStatus(style.TargetStatus{RelPath: m.Name, Status: style.StatusConflict, Detail: string(kind) + ": " + linkText}))
			}
		}
		return nil
	},
}
