// Package engine is the facade spec.md §6.1 exposes to the CLI:
// Link, Unlink, Deploy, SimpleUnlink. It owns nothing the leaf
// packages don't already own — it wires filesystem, prompt handler,
// and configuration into a module.Scanner plus a per-module
// pkg/linker, pkg/deployer, or pkg/simpleunlink call, the way the
// teacher's pkg/core sits between cmd/dodot and its own leaf packages.
package engine

import (
	"github.com/ndmgr/ndmgr/pkg/deployer"
	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/linker"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/module"
	"github.com/ndmgr/ndmgr/pkg/pathops"
	"github.com/ndmgr/ndmgr/pkg/prompt"
	"github.com/ndmgr/ndmgr/pkg/simpleunlink"
)

// Status mirrors deployer.Status for the subset of modules this
// invocation actually touched.
type Status string

const (
	StatusLinked  Status = "linked"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ModuleResult reports the outcome for one module in a Link or Unlink
// call.
type ModuleResult struct {
	Module module.Module
	Status Status
	Stats  linker.Stats
	Err    error
}

// Report aggregates ModuleResults across every module an invocation
// touched.
type Report struct {
	Results []ModuleResult
}

func (r Report) Successful() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusLinked {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

func (r Report) PartialSuccess() bool {
	return r.Failed() > 0 && r.Successful() > 0
}

// Options configures a Link or Unlink call (spec.md §6.1: source_root,
// target_root, modules, LinkerOptions, force mode).
type Options struct {
	FS             filesystem.FS
	Prompt         prompt.Handler
	SourceRoot     string
	TargetBase     string
	HomeDir        string
	Modules        []string // empty selects every module the scanner finds
	ScanDepth      uint32
	IgnorePatterns []string
	Linker         linker.Options
}

// DeployOptions configures a Deploy call.
type DeployOptions struct {
	FS             filesystem.FS
	Prompt         prompt.Handler
	SourceRoot     string
	TargetBase     string
	HomeDir        string
	ScanDepth      uint32
	IgnorePatterns []string
	Linker         linker.Options
}

// SimpleUnlinkOptions configures a SimpleUnlink call.
type SimpleUnlinkOptions struct {
	FS         filesystem.FS
	Cwd        string
	ModuleName string
	HomeDir    string
}

var log = logging.GetLogger("engine")

// Link runs the Linker over each selected module (spec.md §4.5), one
// module at a time, aggregating the results.
func Link(opts Options) (Report, error) {
	return runPerModule(opts, "link", func(l *linker.Linker, source, target string) error {
		return l.Link(source, target)
	})
}

// Unlink runs the Linker's Unlink over each selected module (spec.md
// §4.5.4).
func Unlink(opts Options) (Report, error) {
	return runPerModule(opts, "unlink", func(l *linker.Linker, source, target string) error {
		return l.Unlink(source, target)
	})
}

func runPerModule(opts Options, verb string, apply func(*linker.Linker, string, string) error) (Report, error) {
	scanner := module.NewScanner(opts.FS, opts.IgnorePatterns, opts.ScanDepth)
	modules, err := scanner.Scan(opts.SourceRoot)
	if err != nil {
		log.Error().Err(err).Str("sourceRoot", opts.SourceRoot).Msg("module scan failed")
		return Report{}, err
	}

	selected, err := selectModules(modules, opts.Modules)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, m := range selected {
		result := applyToModule(opts, m, verb, apply)
		report.Results = append(report.Results, result)
	}

	log.Info().
		Str("verb", verb).
		Int("total", len(selected)).
		Int("successful", report.Successful()).
		Int("failed", report.Failed()).
		Msg("invocation complete")

	return report, nil
}

func applyToModule(opts Options, m module.Module, verb string, apply func(*linker.Linker, string, string) error) ModuleResult {
	if m.Ignore {
		return ModuleResult{Module: m, Status: StatusSkipped}
	}

	target, err := effectiveTarget(m, opts.TargetBase, opts.HomeDir)
	if err != nil {
		log.Warn().Err(err).Str("module", m.Name).Msg("could not resolve effective target")
		return ModuleResult{Module: m, Status: StatusFailed, Err: err}
	}

	l := linker.New(opts.FS, opts.Prompt, opts.Linker)
	if err := apply(l, m.Path, target); err != nil {
		log.Error().Err(err).Str("module", m.Name).Str("verb", verb).Msg("module operation failed")
		return ModuleResult{Module: m, Status: StatusFailed, Stats: l.Stats, Err: err}
	}

	return ModuleResult{Module: m, Status: StatusLinked, Stats: l.Stats}
}

func effectiveTarget(m module.Module, targetBase, homeDir string) (string, error) {
	if m.TargetDir == "" {
		return targetBase, nil
	}
	return pathops.Expand(m.TargetDir, homeDir)
}

func selectModules(modules []module.Module, names []string) ([]module.Module, error) {
	if len(names) == 0 {
		return modules, nil
	}

	byName := make(map[string]module.Module, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
	}

	selected := make([]module.Module, 0, len(names))
	for _, name := range names {
		m, ok := byName[name]
		if !ok {
			return nil, errors.Newf(errors.ErrModuleNotFound, "module %q not found", name).
				WithDetail("module", name)
		}
		selected = append(selected, m)
	}
	return selected, nil
}

// Deploy runs the Deployer over every module under SourceRoot (spec.md
// §4.6), regardless of any module-name filter — deploy always acts on
// the whole source tree.
func Deploy(opts DeployOptions) (deployer.Report, error) {
	d := deployer.New(opts.FS, opts.Prompt, deployer.Options{
		HomeDir:        opts.HomeDir,
		ScanDepth:      opts.ScanDepth,
		IgnorePatterns: opts.IgnorePatterns,
		Linker:         opts.Linker,
	})
	return d.Deploy(opts.SourceRoot, opts.TargetBase)
}

// SimpleUnlink resolves a bare module name against cwd (spec.md §4.7).
func SimpleUnlink(opts SimpleUnlinkOptions) (int, error) {
	u := simpleunlink.New(opts.FS, simpleunlink.Options{HomeDir: opts.HomeDir})
	return u.Unlink(opts.Cwd, opts.ModuleName)
}
