package simpleunlink

import (
	"path/filepath"
	"testing"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/linker"
	"github.com/ndmgr/ndmgr/pkg/testutil"
)

func TestUnlink_DirectoryModuleRemovesOnlyItsOwnSymlinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files: map[string]string{".vimrc": "set nu", "colors/theme.vim": "colorscheme desert"},
	})

	l := linker.New(env.FS, &testutil.MockPrompt{}, linker.Options{
		ConflictResolution: config.ConflictFail,
		TreeFolding:        config.FoldDirectory,
	})
	if err := l.Link(mod.Path, env.TargetBase); err != nil {
		t.Fatalf("Link: %v", err)
	}

	foreign := filepath.Join(env.TargetBase, ".bashrc")
	if err := env.FS.Symlink("/etc/skel/.bashrc", foreign); err != nil {
		t.Fatalf("setup foreign symlink: %v", err)
	}

	u := New(env.FS, Options{HomeDir: env.HomeDir})
	count, err := u.Unlink(env.SourceRoot, "vim")
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (.vimrc and the folded colors directory link)", count)
	}

	if _, err := env.FS.Lstat(filepath.Join(env.TargetBase, ".vimrc")); err == nil {
		t.Error("expected .vimrc symlink to be removed")
	}
	text, err := env.FS.Readlink(foreign)
	if err != nil || text != "/etc/skel/.bashrc" {
		t.Errorf("foreign symlink should survive, got %q, err=%v", text, err)
	}
}

func TestUnlink_BareSymlinkModuleIsDeletedDirectly(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	linkPath := filepath.Join(env.SourceRoot, "vim")
	if err := env.FS.Symlink("/somewhere/else", linkPath); err != nil {
		t.Fatalf("setup: %v", err)
	}

	u := New(env.FS, Options{HomeDir: env.HomeDir})
	count, err := u.Unlink(env.SourceRoot, "vim")
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if _, err := env.FS.Lstat(linkPath); err == nil {
		t.Error("expected the module symlink itself to be removed")
	}
}

func TestUnlink_MissingModuleIsANoOp(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	u := New(env.FS, Options{HomeDir: env.HomeDir})

	count, err := u.Unlink(env.SourceRoot, "does-not-exist")
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestUnlink_HonorsTargetDirOverrideFromDescriptor(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	altTarget := filepath.Join(env.HomeDir, "alt")
	if err := env.FS.MkdirAll(altTarget, 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	mod := env.SetupModule("vim", testutil.ModuleConfig{
		Files:      map[string]string{".vimrc": "set nu"},
		Descriptor: &testutil.ModuleDescriptor{TargetDir: altTarget},
	})

	l := linker.New(env.FS, &testutil.MockPrompt{}, linker.Options{
		ConflictResolution: config.ConflictFail,
		TreeFolding:        config.FoldDirectory,
	})
	if err := l.Link(mod.Path, altTarget); err != nil {
		t.Fatalf("Link: %v", err)
	}

	u := New(env.FS, Options{HomeDir: env.HomeDir})
	count, err := u.Unlink(env.SourceRoot, "vim")
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if _, err := env.FS.Lstat(filepath.Join(altTarget, ".vimrc")); err == nil {
		t.Error("expected .vimrc under the override target to be removed")
	}
}
