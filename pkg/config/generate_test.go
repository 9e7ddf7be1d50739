package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EmitsLinkingSection(t *testing.T) {
	cfg := Default()
	out, err := Render(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "[linking]")
	assert.Contains(t, out, "conflict_resolution")
}
