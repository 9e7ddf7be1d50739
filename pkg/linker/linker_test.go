package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/filesystem"
	"github.com/ndmgr/ndmgr/pkg/testutil"
)

func newLinker(t *testing.T, env *testutil.TestEnvironment, opts Options) *Linker {
	t.Helper()
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = "bkp"
	}
	return New(env.FS, &testutil.MockPrompt{}, opts)
}

// The shared testutil.Assert* helpers operate on the real OS
// filesystem; these local equivalents go through the env's FS so they
// also work against the in-memory environment these tests mostly use.

func assertSymlink(t *testing.T, fs filesystem.FS, link, wantTarget string) {
	t.Helper()
	text, err := fs.Readlink(link)
	if err != nil {
		t.Fatalf("Readlink(%q): %v", link, err)
	}
	if text != wantTarget {
		t.Errorf("symlink %q = %q, want %q", link, text, wantTarget)
	}
}

func assertFileContent(t *testing.T, fs filesystem.FS, path, want string) {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", path, err)
	}
	if string(data) != want {
		t.Errorf("file %q content = %q, want %q", path, string(data), want)
	}
}

func assertMissing(t *testing.T, fs filesystem.FS, path string) {
	t.Helper()
	if _, err := fs.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %q to be missing, Lstat err = %v", path, err)
	}
}

// Scenario 1: empty target, single-file module.
func TestScenario1_EmptyTargetSingleFileModule(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	assertSymlink(t, env.FS, filepath.Join(env.TargetBase, ".vimrc"), "../src/vim/.vimrc")
	if l.Stats.FilesLinked != 1 {
		t.Errorf("FilesLinked = %d, want 1", l.Stats.FilesLinked)
	}
}

// Scenario 2: idempotent re-link performs no mutations.
func TestScenario2_IdempotentRelink(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())

	opts := Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory}
	first := newLinker(t, env, opts)
	if err := first.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("first Link: %v", err)
	}

	second := newLinker(t, env, opts)
	if err := second.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("second Link: %v", err)
	}
	if second.Stats != (Stats{}) {
		t.Errorf("second Link should be a pure no-op, got stats %+v", second.Stats)
	}
}

// Scenario 3: Replace with backup.
func TestScenario3_ReplaceWithBackup(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())
	env.WithTargetFileTree(testutil.FileTree{".vimrc": "existing user content"})

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictReplace, TreeFolding: config.FoldDirectory, BackupConflicts: true})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	assertSymlink(t, env.FS, filepath.Join(env.TargetBase, ".vimrc"), "../src/vim/.vimrc")
	assertFileContent(t, env.FS, filepath.Join(env.TargetBase, ".vimrc.bkp"), "existing user content")
	if l.Stats.BackupsCreated != 1 || l.Stats.FilesLinked != 1 || l.Stats.ConflictsResolved != 1 {
		t.Errorf("unexpected stats: %+v", l.Stats)
	}
}

// Scenario 4: Aggressive fold over an empty existing directory.
func TestScenario4_AggressiveFoldOverEmptyDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files: map[string]string{"colors/theme.vim": "colorscheme desert"},
	})
	env.WithTargetFileTree(testutil.FileTree{"colors": testutil.FileTree{}})

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldAggressive})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	if _, err := l.FS.Readlink(filepath.Join(env.TargetBase, "colors")); err != nil {
		t.Errorf("expected colors to be folded into a single symlink: %v", err)
	}
}

// Scenario 5: directory adoption merges foreign content into source.
func TestScenario5_DirectoryAdoption(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{Dirs: []string{"colors"}})
	env.WithTargetFileTree(testutil.FileTree{
		"colors": testutil.FileTree{"theirs.vim": "foreign content"},
	})

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictAdopt, TreeFolding: config.FoldDirectory, BackupConflicts: false})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	assertFileContent(t, env.FS, filepath.Join(mod.Path, "colors", "theirs.vim"), "foreign content")
	if _, err := l.FS.Readlink(filepath.Join(env.TargetBase, "colors")); err != nil {
		t.Errorf("expected colors to become a directory symlink after adoption: %v", err)
	}
	if l.Stats.DirsLinked != 1 || l.Stats.ConflictsResolved != 1 {
		t.Errorf("unexpected stats: %+v", l.Stats)
	}
}

// Scenario 6: unlink leaves foreign symlinks untouched.
func TestScenario6_UnlinkLeavesForeignLinksAlone(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())

	opts := Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory}
	l := newLinker(t, env, opts)
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	foreign := filepath.Join(env.TargetBase, ".bashrc")
	if err := env.FS.Symlink("/etc/skel/.bashrc", foreign); err != nil {
		t.Fatalf("setup foreign symlink: %v", err)
	}

	u := newLinker(t, env, opts)
	if err := u.Unlink(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	assertMissing(t, env.FS, filepath.Join(env.TargetBase, ".vimrc"))
	text, err := env.FS.Readlink(foreign)
	if err != nil || text != "/etc/skel/.bashrc" {
		t.Errorf("foreign symlink should survive unlink untouched, got %q, err=%v", text, err)
	}
}

// P1: idempotence — a second identical Link produces zero mutations
// even for a multi-file, multi-directory module.
func TestProperty_Idempotence(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files: map[string]string{".vimrc": "set nu", "colors/theme.vim": "colorscheme desert"},
	})

	opts := Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory}
	if err := newLinker(t, env, opts).Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("first Link: %v", err)
	}

	second := newLinker(t, env, opts)
	if err := second.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("second Link: %v", err)
	}
	if second.Stats != (Stats{}) {
		t.Errorf("expected zero counter increments on the idempotent pass, got %+v", second.Stats)
	}
}

// P2: link then unlink restores the target to its pre-link state.
func TestProperty_LinkUnlinkInverse(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files: map[string]string{".vimrc": "set nu", "colors/theme.vim": "colorscheme desert"},
	})

	opts := Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory}
	if err := newLinker(t, env, opts).Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if err := newLinker(t, env, opts).Unlink(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	entries, err := env.FS.ReadDir(env.TargetBase)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected target base to be empty after unlink, got %+v", entries)
	}
}

// P4: every created symlink stores a relative path, not an absolute one.
func TestProperty_RelativeLinkInvariant(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	text, err := env.FS.Readlink(filepath.Join(env.TargetBase, ".vimrc"))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if filepath.IsAbs(text) {
		t.Errorf("link text %q should be relative", text)
	}
}

// Fail policy: a conflicting file aborts with ConflictDetected and the
// existing target is left untouched (no data loss, P5/P6 adjacent).
func TestLink_FailPolicyReturnsConflictDetectedAndLeavesTargetUntouched(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())
	env.WithTargetFileTree(testutil.FileTree{".vimrc": "do not touch me"})

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictFail, TreeFolding: config.FoldDirectory})
	err := l.Link(mod.Path, env.TargetBase)
	if err == nil {
		t.Fatal("expected a ConflictDetected error")
	}
	assertFileContent(t, env.FS, filepath.Join(env.TargetBase, ".vimrc"), "do not touch me")
}

// Skip policy: a conflict is counted and left alone, and the batch
// continues to other entries in the module.
func TestLink_SkipPolicyLeavesConflictAloneAndContinues(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files: map[string]string{".vimrc": "new content", "colors/theme.vim": "colorscheme desert"},
	})
	env.WithTargetFileTree(testutil.FileTree{".vimrc": "existing"})

	l := newLinker(t, env, Options{ConflictResolution: config.ConflictSkip, TreeFolding: config.FoldDirectory})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	assertFileContent(t, env.FS, filepath.Join(env.TargetBase, ".vimrc"), "existing")
	if l.Stats.FilesSkipped < 1 {
		t.Errorf("expected at least one skip, got %+v", l.Stats)
	}
	if _, err := l.FS.Readlink(filepath.Join(env.TargetBase, "colors")); err != nil {
		t.Errorf("other module entries should still have linked: %v", err)
	}
}

// BackupConflict: a pre-existing backup with a forced-No prompt aborts
// the operation and leaves the original target untouched.
func TestLink_BackupConflictAbortsUnderForceNo(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.VimModule())
	env.WithTargetFileTree(testutil.FileTree{
		".vimrc":     "existing",
		".vimrc.bkp": "stale prior backup",
	})

	l := New(env.FS, &testutil.ForcedPrompt{Answer: false}, Options{
		ConflictResolution: config.ConflictReplace,
		TreeFolding:        config.FoldDirectory,
		BackupConflicts:    true,
		BackupSuffix:       "bkp",
	})
	err := l.Link(mod.Path, env.TargetBase)
	if err == nil {
		t.Fatal("expected a BackupConflict error")
	}
	assertFileContent(t, env.FS, filepath.Join(env.TargetBase, ".vimrc"), "existing")
	assertFileContent(t, env.FS, filepath.Join(env.TargetBase, ".vimrc.bkp"), "stale prior backup")
}

// Ignored modules' .ndmgr and ignore-pattern matched entries never
// produce symlinks.
func TestLink_IgnoredEntriesAreSkippedNotLinked(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files:      map[string]string{".vimrc": "set nu", "swap.swp": "junk"},
		Descriptor: &testutil.ModuleDescriptor{Description: "vim config"},
	})

	l := newLinker(t, env, Options{
		ConflictResolution: config.ConflictFail,
		TreeFolding:        config.FoldDirectory,
		IgnorePatterns:     []string{"*.swp"},
	})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	assertMissing(t, env.FS, filepath.Join(env.TargetBase, ".ndmgr"))
	assertMissing(t, env.FS, filepath.Join(env.TargetBase, "swap.swp"))
	if _, err := l.FS.Readlink(filepath.Join(env.TargetBase, ".vimrc")); err != nil {
		t.Errorf("expected .vimrc to still be linked: %v", err)
	}
}
