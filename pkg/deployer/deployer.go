// Package deployer implements the Deployer (spec.md §4.6): it scans a
// source root for modules and invokes the Linker for each in turn,
// aggregating per-module results into one batch report.
package deployer

import (
	"github.com/rs/zerolog"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/errors"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/linker"
	"github.com/ndmgr/ndmgr/pkg/logging"
	"github.com/ndmgr/ndmgr/pkg/module"
	"github.com/ndmgr/ndmgr/pkg/pathops"
	"github.com/ndmgr/ndmgr/pkg/prompt"
)

// Options configures one Deploy invocation (spec.md §4.6's inputs: the
// source root and target base are passed to Deploy itself; this covers
// the rest, including the scanner's ignore patterns and the
// LinkerOptions applied to every module).
type Options struct {
	HomeDir        string
	ScanDepth      uint32
	IgnorePatterns []string
	Linker         linker.Options
}

// Status is the terminal outcome of deploying a single module.
type Status string

const (
	StatusLinked  Status = "linked"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ModuleResult records the outcome of deploying one module.
type ModuleResult struct {
	Module module.Module
	Status Status
	Stats  linker.Stats
	Err    error
}

// Report is the batch outcome of one Deploy invocation.
type Report struct {
	Results []ModuleResult
}

// Successful counts modules that linked cleanly.
func (r Report) Successful() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusLinked {
			n++
		}
	}
	return n
}

// Failed counts modules that errored.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

// PartialSuccess reports whether the batch had a mix of linked and
// failed modules (spec.md §4.6: "return partial-success if any module
// failed").
func (r Report) PartialSuccess() bool {
	return r.Failed() > 0 && r.Successful() > 0
}

// Deployer drives the ModuleScanner and a per-module Linker across a
// whole source root.
type Deployer struct {
	FS      filesystem.FS
	Prompt  prompt.Handler
	Options Options

	log zerolog.Logger
}

// New constructs a Deployer.
func New(fs filesystem.FS, p prompt.Handler, opts Options) *Deployer {
	return &Deployer{FS: fs, Prompt: p, Options: opts, log: logging.GetLogger("deployer")}
}

// Deploy scans sourceRoot and deploys every non-ignored module found
// against targetBase, per spec.md §4.6's algorithm. The returned error
// is non-nil only for invocation-aborting failures (scanner failure, or
// a BackupConflict under force mode No); individual module failures are
// reported in the returned Report instead.
func (d *Deployer) Deploy(sourceRoot, targetBase string) (Report, error) {
	scanner := module.NewScanner(d.FS, d.Options.IgnorePatterns, d.Options.ScanDepth)
	modules, err := scanner.Scan(sourceRoot)
	if err != nil {
		d.log.Error().Err(err).Str("sourceRoot", sourceRoot).Msg("module scan failed")
		return Report{}, err
	}

	d.log.Info().Int("moduleCount", len(modules)).Msg("starting deployment")

	var report Report
	for _, m := range modules {
		result := d.deployModule(scanner, m, targetBase)
		report.Results = append(report.Results, result)

		if result.Status == StatusFailed && errors.IsCode(result.Err, errors.BackupConflict) &&
			d.Options.Linker.ForceMode == prompt.ForceNo {
			d.log.Error().Str("module", m.Name).Msg("backup conflict under force mode no, aborting batch")
			return report, result.Err
		}
	}

	d.log.Info().
		Int("total", len(modules)).
		Int("successful", report.Successful()).
		Int("failed", report.Failed()).
		Msg("deployment complete")

	return report, nil
}

func (d *Deployer) deployModule(scanner *module.Scanner, m module.Module, targetBase string) ModuleResult {
	if m.Ignore {
		d.log.Debug().Str("module", m.Name).Msg("module marked ignore, skipping")
		return ModuleResult{Module: m, Status: StatusSkipped}
	}

	effectiveTarget := targetBase
	if m.TargetDir != "" {
		expanded, err := pathops.Expand(m.TargetDir, d.Options.HomeDir)
		if err != nil {
			d.log.Warn().Err(err).Str("module", m.Name).Msg("could not expand target_dir, skipping module")
			return ModuleResult{Module: m, Status: StatusFailed, Err: err}
		}
		effectiveTarget = expanded
	}

	info, statErr := d.FS.Stat(effectiveTarget)
	if statErr != nil || !info.IsDir() {
		err := errors.Newf(errors.FatalTarget, "target %q is not an existing directory", effectiveTarget).
			WithDetail("module", m.Name)
		d.log.Warn().Err(err).Msg("target unavailable, skipping module")
		return ModuleResult{Module: m, Status: StatusFailed, Err: err}
	}

	kind, linkText, err := scanner.PreviewConflict(m, effectiveTarget)
	if err != nil {
		d.log.Warn().Err(err).Str("module", m.Name).Msg("conflict preview failed, skipping module")
		return ModuleResult{Module: m, Status: StatusFailed, Err: err}
	}

	noOverride := d.Options.Linker.ConflictResolution == config.ConflictFail
	if kind != module.NoConflict && noOverride && d.Options.Linker.ForceMode == prompt.ForceNone {
		err := errors.Newf(errors.ConflictDetected, "module %q: %s at %q", m.Name, kind, effectiveTarget).
			WithDetail("module", m.Name).WithDetail("kind", string(kind)).WithDetail("link_text", linkText)
		d.log.Warn().Err(err).Msg("conflict detected ahead of link, skipping module")
		return ModuleResult{Module: m, Status: StatusFailed, Err: err}
	}

	l := linker.New(d.FS, d.Prompt, d.Options.Linker)
	if err := l.Link(m.Path, effectiveTarget); err != nil {
		d.log.Error().Err(err).Str("module", m.Name).Msg("link failed")
		return ModuleResult{Module: m, Status: StatusFailed, Stats: l.Stats, Err: err}
	}

	d.log.Info().Str("module", m.Name).Interface("stats", l.Stats).Msg("module linked")
	return ModuleResult{Module: m, Status: StatusLinked, Stats: l.Stats}
}
