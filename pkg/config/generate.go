package config

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// Render marshals cfg back to TOML, producing a starting .ndmgr.toml a
// user can then edit (grounded on the teacher's GenerateConfigContent,
// which serializes the resolved defaults as a commented starting point).
// No ndmgr CLI command calls it.
func Render(cfg *Config) (string, error) {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}
	return string(b), nil
}
