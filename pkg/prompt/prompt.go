// Package prompt defines the interactive yes/no confirmation channel.
// The Linker asks through it only when a backup already exists at the
// backup path (overwrite-existing-backup); directory adoption proceeds
// without asking, and nothing in ndmgr asks a config-differs-from-backup
// question.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Handler is the capability the Linker depends on instead of reading
// stdin directly, so tests can supply a scripted double.
type Handler interface {
	// AskYesNo presents question to the user and returns their answer,
	// falling back to def when the answer cannot be read.
	AskYesNo(question string, def bool) bool

	// ForceMode reports whether every question should be answered
	// without asking, and with what value, modelling a CLI force flag.
	ForceMode() (value bool, forced bool)
}

// ForceMode mirrors LinkerOptions' force mode (spec.md §3): None means
// ask interactively, Default means use each question's documented
// default, Yes/No pin every answer.
type ForceMode string

const (
	ForceNone    ForceMode = "none"
	ForceDefault ForceMode = "default"
	ForceYes     ForceMode = "yes"
	ForceNo      ForceMode = "no"
)

// Resolve maps a ForceMode to a Handler's AskYesNo outcome without
// asking anything, returning ok=false when the mode requires an actual
// interactive prompt (ForceNone). def is the question's own documented
// default, used when the mode is ForceDefault.
func (f ForceMode) Resolve(def bool) (answer bool, ok bool) {
	switch f {
	case ForceDefault:
		return def, true
	case ForceYes:
		return true, true
	case ForceNo:
		return false, true
	default:
		return false, false
	}
}

// CLIHandler reads answers from an interactive terminal (stdin), used
// when ForceMode is None. It is the production Handler wired by cmd/ndmgr.
type CLIHandler struct {
	Mode   ForceMode
	In     io.Reader
	Out    io.Writer
	reader *bufio.Scanner
}

func NewCLIHandler(mode ForceMode, in io.Reader, out io.Writer) *CLIHandler {
	return &CLIHandler{Mode: mode, In: in, Out: out}
}

// ForceMode reports whether every question is pinned to a fixed
// answer (Yes/No/Default — every documented default in spec.md §6 is
// No, so Default collapses to the same forced value as No) rather than
// asked interactively. The Deployer uses this to detect force-No
// specifically, per spec.md §4.6's BackupConflict-abort rule.
func (c *CLIHandler) ForceMode() (value bool, forced bool) {
	switch c.Mode {
	case ForceYes:
		return true, true
	case ForceDefault, ForceNo:
		return false, true
	default:
		return false, false
	}
}

func (c *CLIHandler) AskYesNo(question string, def bool) bool {
	if answer, ok := c.Mode.Resolve(def); ok {
		return answer
	}

	if c.reader == nil {
		c.reader = bufio.NewScanner(c.In)
	}

	suffix := "y/N"
	if def {
		suffix = "Y/n"
	}
	fmt.Fprintf(c.Out, "%s [%s] ", question, suffix)

	if !c.reader.Scan() {
		return def
	}

	switch strings.ToLower(strings.TrimSpace(c.reader.Text())) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
