package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_InitializesToDefaultOnFirstUse(t *testing.T) {
	globalConfig = nil
	cfg := Get()
	assert.Equal(t, ConflictFail, cfg.Linking.ConflictResolution)
}

func TestInitialize_NilFallsBackToDefault(t *testing.T) {
	globalConfig = nil
	Initialize(nil)
	assert.NotNil(t, globalConfig)
}

func TestInitialize_SetsGlobal(t *testing.T) {
	custom := &Config{Linking: Linking{ConflictResolution: ConflictReplace, TreeFolding: FoldAggressive, ScanDepth: 1}}
	Initialize(custom)
	t.Cleanup(func() { globalConfig = nil })

	assert.Same(t, custom, Get())
}
