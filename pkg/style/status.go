package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status describes the outcome of a link operation against a single target path.
type Status string

const (
	StatusLinked   Status = "linked"   // target now symlinked to source
	StatusSkipped  Status = "skipped"  // skip policy or ignore pattern
	StatusConflict Status = "conflict" // fail policy saw a conflict
	StatusAdopted  Status = "adopted"  // existing data imported into source
	StatusReplaced Status = "replaced" // existing data backed up and replaced
	StatusUnlinked Status = "unlinked" // symlink removed
	StatusForeign  Status = "foreign"  // left untouched, not our link
	StatusError    Status = "error"    // operation failed
	StatusIgnored  Status = "ignored"  // module marked ignore = true
)

// StatusStyle returns the pterm style used to render a given status.
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusLinked, StatusAdopted, StatusReplaced, StatusUnlinked:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusError, StatusConflict:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusSkipped, StatusIgnored, StatusForeign:
		return pterm.NewStyle(pterm.FgGray)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// TargetStatus is one line of a module's link report: what happened to one
// relative path under the module.
type TargetStatus struct {
	RelPath string
	Status  Status
	Detail  string // e.g. backup path, conflicting file kind
}

// ModuleReport is the aggregated report for one module's link or unlink run.
type ModuleReport struct {
	Name    string
	Status  Status // aggregated status
	Targets []TargetStatus
}

// RenderTargetStatus renders a single target status line.
func RenderTargetStatus(ts TargetStatus) string {
	label := fmt.Sprintf("%-8s", ts.Status)
	styled := StatusStyle(ts.Status).Sprint(label)
	path := fmt.Sprintf("%-32s", ts.RelPath)
	if ts.Detail != "" {
		return fmt.Sprintf("    %s : %s : %s", styled, path, ts.Detail)
	}
	return fmt.Sprintf("    %s : %s", styled, path)
}

// RenderModuleReport renders a complete module report.
func RenderModuleReport(r ModuleReport) string {
	var out strings.Builder

	header := r.Name + ":"
	if r.Status == StatusError || r.Status == StatusConflict {
		header = StatusStyle(r.Status).Sprint(header)
	} else if r.Status == StatusIgnored {
		header = StatusStyle(r.Status).Sprint(header)
	}
	out.WriteString(header + "\n")

	if r.Status == StatusIgnored {
		out.WriteString("    ignore = true in .ndmgr\n")
		return strings.TrimRight(out.String(), "\n")
	}

	for _, ts := range r.Targets {
		out.WriteString(RenderTargetStatus(ts) + "\n")
	}

	return strings.TrimRight(out.String(), "\n")
}

// AggregateStatus rolls up a set of target statuses into one module status.
func AggregateStatus(targets []TargetStatus) Status {
	hasError := false
	hasConflict := false
	allSkippedOrForeign := true

	for _, t := range targets {
		switch t.Status {
		case StatusError:
			hasError = true
		case StatusConflict:
			hasConflict = true
		}
		if t.Status != StatusSkipped && t.Status != StatusForeign {
			allSkippedOrForeign = false
		}
	}

	switch {
	case hasError:
		return StatusError
	case hasConflict:
		return StatusConflict
	case allSkippedOrForeign && len(targets) > 0:
		return StatusSkipped
	default:
		return StatusLinked
	}
}
