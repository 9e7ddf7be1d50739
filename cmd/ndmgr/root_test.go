package main

import (
	"io"
	"os"
	"testing"

	"github.com/ndmgr/ndmgr/pkg/testutil"
)

// resetFlags restores every package-level flag variable to its zero
// value between tests, since rootCmd (like the teacher's own single
// rootCmd instance before it grew a NewRootCmd() constructor) is a
// package-level var shared across test functions.
func resetFlags() {
	verbosity = 0
	dryRun = false
	force = false
	configPath = ""
	cfg = nil
	linkTarget = ""
	unlinkTarget = ""
}

// captureStdout runs f with os.Stdout redirected, grounded on the
// teacher's cmd/dodot test helper of the same name.
func captureStdout(t *testing.T, f func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	testutil.AssertNoError(t, err)

	old := os.Stdout
	os.Stdout = w
	runErr := f()
	os.Stdout = old
	testutil.AssertNoError(t, w.Close())

	out, err := io.ReadAll(r)
	testutil.AssertNoError(t, err)
	return string(out), runErr
}

func execRoot(t *testing.T, args []string) (string, error) {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return captureStdout(t, rootCmd.Execute)
}

func TestDeployCmd_LinksEveryModule(t *testing.T) {
	mod, target := testutil.SetupRealModuleWithTarget(t, "vim")
	mod.AddFile(t, ".vimrc", "\" test vimrc\n")
	t.Setenv("DOTFILES_ROOT", mod.SourceRoot)
	t.Setenv("HOME", target)

	out, err := execRoot(t, []string{"deploy"})
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, out, "vim")
	testutil.AssertTrue(t, testutil.SymlinkExists(t, target+"/.vimrc"))
}

func TestDeployCmd_NoDotfilesRootReturnsError(t *testing.T) {
	_, target := testutil.SetupRealModuleWithTarget(t, "vim")
	t.Setenv("DOTFILES_ROOT", "")
	t.Setenv("HOME", target)

	_, err := execRoot(t, []string{"deploy"})
	testutil.AssertError(t, err)
}

func TestDeployCmd_DryRunDoesNotMutate(t *testing.T) {
	mod, target := testutil.SetupRealModuleWithTarget(t, "vim")
	mod.AddFile(t, ".vimrc", "\" test vimrc\n")
	t.Setenv("DOTFILES_ROOT", mod.SourceRoot)
	t.Setenv("HOME", target)

	out, err := execRoot(t, []string{"deploy", "--dry-run"})
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, out, "would link")
	testutil.AssertFalse(t, testutil.SymlinkExists(t, target+"/.vimrc"))
}

func TestLinkCmd_LinksOnlyTheNamedModule(t *testing.T) {
	mod, target := testutil.SetupRealModuleWithTarget(t, "vim")
	mod.AddFile(t, ".vimrc", "\" test vimrc\n")
	gitDir := testutil.CreateDir(t, mod.SourceRoot, "git")
	testutil.CreateFile(t, gitDir, ".gitconfig", "[user]\n")
	t.Setenv("DOTFILES_ROOT", mod.SourceRoot)
	t.Setenv("HOME", target)

	_, err := execRoot(t, []string{"link", "vim"})
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, testutil.SymlinkExists(t, target+"/.vimrc"))
	testutil.AssertFalse(t, testutil.SymlinkExists(t, target+"/.gitconfig"))
}

func TestUnlinkCmd_RemovesTheLink(t *testing.T) {
	mod, target := testutil.SetupRealModuleWithTarget(t, "vim")
	mod.AddFile(t, ".vimrc", "\" test vimrc\n")
	t.Setenv("DOTFILES_ROOT", mod.SourceRoot)
	t.Setenv("HOME", target)

	_, err := execRoot(t, []string{"link", "vim"})
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, testutil.SymlinkExists(t, target+"/.vimrc"))

	_, err = execRoot(t, []string{"unlink", "vim"})
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, testutil.SymlinkExists(t, target+"/.vimrc"))
}

func TestUnlinkCmd_FallsBackToSimpleUnlinkWithoutDotfilesRoot(t *testing.T) {
	mod, target := testutil.SetupRealModuleWithTarget(t, "vim")
	mod.AddFile(t, ".vimrc", "\" test vimrc\n")
	t.Setenv("DOTFILES_ROOT", mod.SourceRoot)
	t.Setenv("HOME", target)

	_, err := execRoot(t, []string{"link", "vim"})
	testutil.AssertNoError(t, err)

	t.Setenv("DOTFILES_ROOT", "")
	restoreWd := chdir(t, mod.SourceRoot)
	defer restoreWd()

	out, err := execRoot(t, []string{"unlink", "vim"})
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, out, "removed")
	testutil.AssertFalse(t, testutil.SymlinkExists(t, target+"/.vimrc"))
}

func TestStatusCmd_ReportsLinkedAndNotDeployed(t *testing.T) {
	mod, target := testutil.SetupRealModuleWithTarget(t, "vim")
	mod.AddFile(t, ".vimrc", "\" test vimrc\n")
	other := testutil.CreateDir(t, mod.SourceRoot, "tmux")
	testutil.CreateFile(t, other, ".tmux.conf", "set -g mouse on\n")
	t.Setenv("DOTFILES_ROOT", mod.SourceRoot)
	t.Setenv("HOME", target)

	_, err := execRoot(t, []string{"link", "vim"})
	testutil.AssertNoError(t, err)

	out, err := execRoot(t, []string{"status"})
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, out, "vim")
	testutil.AssertContains(t, out, "tmux")
}

func TestVersionCmd_PrintsVersionString(t *testing.T) {
	out, err := execRoot(t, []string{"version"})
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, out, "ndmgr version")
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}
