package engine

import (
	"path/filepath"
	"testing"

	"github.com/ndmgr/ndmgr/pkg/config"
	"github.com/ndmgr/ndmgr/pkg/deployer"
	"github.com/ndmgr/ndmgr/pkg/linker"
	"github.com/ndmgr/ndmgr/pkg/testutil"
)

func defaultLinkerOptions() linker.Options {
	return linker.Options{
		ConflictResolution: config.ConflictFail,
		TreeFolding:        config.FoldDirectory,
		BackupSuffix:       "bkp",
	}
}

func TestLink_LinksOnlyTheNamedModule(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.SetupModule("vim", testutil.VimModule())
	env.SetupModule("git", testutil.ModuleConfig{Files: map[string]string{".gitconfig": "[user]"}})

	report, err := Link(Options{
		FS:         env.FS,
		Prompt:     &testutil.MockPrompt{},
		SourceRoot: env.SourceRoot,
		TargetBase: env.TargetBase,
		HomeDir:    env.HomeDir,
		Modules:    []string{"vim"},
		ScanDepth:  1,
		Linker:     defaultLinkerOptions(),
	})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Module.Name != "vim" {
		t.Fatalf("expected exactly one result for vim, got %+v", report.Results)
	}
	if report.Successful() != 1 {
		t.Errorf("Successful() = %d, want 1", report.Successful())
	}

	if _, err := env.FS.Lstat(filepath.Join(env.TargetBase, ".vimrc")); err != nil {
		t.Errorf(".vimrc should be linked: %v", err)
	}
	if _, err := env.FS.Lstat(filepath.Join(env.TargetBase, ".gitconfig")); err == nil {
		t.Errorf("unselected module git should not have been linked")
	}
}

func TestLink_UnknownModuleNameReturnsError(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.SetupModule("vim", testutil.VimModule())

	_, err := Link(Options{
		FS:         env.FS,
		Prompt:     &testutil.MockPrompt{},
		SourceRoot: env.SourceRoot,
		TargetBase: env.TargetBase,
		HomeDir:    env.HomeDir,
		Modules:    []string{"does-not-exist"},
		ScanDepth:  1,
		Linker:     defaultLinkerOptions(),
	})
	if err == nil {
		t.Fatal("expected an error for an unknown module name")
	}
}

func TestUnlink_RemovesOnlyTheNamedModulesLinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.SetupModule("vim", testutil.VimModule())

	if _, err := Link(Options{
		FS:         env.FS,
		Prompt:     &testutil.MockPrompt{},
		SourceRoot: env.SourceRoot,
		TargetBase: env.TargetBase,
		HomeDir:    env.HomeDir,
		ScanDepth:  1,
		Linker:     defaultLinkerOptions(),
	}); err != nil {
		t.Fatalf("setup Link: %v", err)
	}

	report, err := Unlink(Options{
		FS:         env.FS,
		Prompt:     &testutil.MockPrompt{},
		SourceRoot: env.SourceRoot,
		TargetBase: env.TargetBase,
		HomeDir:    env.HomeDir,
		Modules:    []string{"vim"},
		ScanDepth:  1,
		Linker:     defaultLinkerOptions(),
	})
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if report.Failed() != 0 {
		t.Errorf("expected no failures, got %+v", report.Results)
	}
	if _, err := env.FS.Lstat(filepath.Join(env.TargetBase, ".vimrc")); err == nil {
		t.Error("expected .vimrc symlink to be removed")
	}
}

func TestDeploy_DelegatesToTheDeployerAcrossAllModules(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.SetupModule("vim", testutil.VimModule())
	env.SetupModule("readme", testutil.IgnoredModule())

	report, err := Deploy(DeployOptions{
		FS:         env.FS,
		Prompt:     &testutil.MockPrompt{},
		SourceRoot: env.SourceRoot,
		TargetBase: env.TargetBase,
		HomeDir:    env.HomeDir,
		ScanDepth:  1,
		Linker:     defaultLinkerOptions(),
	})
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if report.Successful() != 1 {
		t.Errorf("Successful() = %d, want 1 (vim)", report.Successful())
	}

	var ignored *deployer.ModuleResult
	for i := range report.Results {
		if report.Results[i].Module.Name == "readme" {
			ignored = &report.Results[i]
		}
	}
	if ignored == nil || ignored.Status != deployer.StatusSkipped {
		t.Errorf("expected readme to be skipped, got %+v", ignored)
	}
}

func TestSimpleUnlink_DelegatesToSimpleUnlinker(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.SetupModule("vim", testutil.VimModule())

	if _, err := Link(Options{
		FS:         env.FS,
		Prompt:     &testutil.MockPrompt{},
		SourceRoot: env.SourceRoot,
		TargetBase: env.TargetBase,
		HomeDir:    env.HomeDir,
		ScanDepth:  1,
		Linker:     defaultLinkerOptions(),
	}); err != nil {
		t.Fatalf("setup Link: %v", err)
	}

	count, err := SimpleUnlink(SimpleUnlinkOptions{
		FS:         env.FS,
		Cwd:        env.SourceRoot,
		ModuleName: "vim",
		HomeDir:    env.HomeDir,
	})
	if err != nil {
		t.Fatalf("SimpleUnlink: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
