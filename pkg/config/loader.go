package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// Load resolves Config from the layered TOML sources described in
// spec.md §6 / SPEC_FULL.md §6.3: built-in defaults, then
// $XDG_CONFIG_HOME/ndmgr/config.toml, then dotfilesRoot/.ndmgr.toml.
// dotfilesRoot may be empty, in which case only the first two layers
// apply. explicitPath, if non-empty (the CLI's --config flag), is
// loaded last and wins over every other layer.
func Load(dotfilesRoot, explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("loading built-in defaults: %w", err)
	}

	if appPath := userConfigPath(); appPath != "" {
		if err := loadIfExists(k, appPath); err != nil {
			return nil, fmt.Errorf("loading user config %s: %w", appPath, err)
		}
	}

	if dotfilesRoot != "" {
		rootPath := filepath.Join(dotfilesRoot, ".ndmgr.toml")
		if err := loadIfExists(k, rootPath); err != nil {
			return nil, fmt.Errorf("loading root config %s: %w", rootPath, err)
		}
	}

	if explicitPath != "" {
		if err := k.Load(file.Provider(explicitPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", explicitPath, err)
		}
	}

	warnObsoleteDeploymentSection(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	return &cfg, nil
}

func loadIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return k.Load(file.Provider(path), toml.Parser())
}

func userConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "ndmgr", "config.toml")
}

// warnObsoleteDeploymentSection implements spec.md §9's resolution of
// the linking.scan_depth vs deployment.scan_depth open question: the
// deployment section is an obsolete alias, logged and ignored.
func warnObsoleteDeploymentSection(k *koanf.Koanf) {
	if !k.Exists("deployment.scan_depth") {
		return
	}
	log.Warn().
		Interface("value", k.Get("deployment.scan_depth")).
		Msg("deployment.scan_depth is obsolete and ignored; use linking.scan_depth")
}
