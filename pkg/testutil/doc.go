// Package testutil provides utilities for testing ndmgr components.
//
// Key components:
//   - TestEnvironment: test orchestrator with isolated source/target trees
//   - MemoryFS: in-memory filesystem with real symlink tracking, for tests
//     that depend on dangling/foreign symlink distinctions
//   - ModuleConfig / SetupModule / FileTree: declarative module tree setup
//   - MockPrompt / ForcedPrompt: scripted prompt.Handler implementations
//
// Usage guidelines:
//   - Most tests should use EnvMemoryOnly for speed and isolation
//   - Tests exercising real symlink semantics use EnvIsolated (real tmpdir)
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
