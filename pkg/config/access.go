package config

// Default returns the built-in configuration with no user or root
// overrides applied — used by callers (and tests) that need a sane
// Config without touching the filesystem.
func Default() *Config {
	cfg, err := Load("", "")
	if err != nil {
		return &Config{
			Settings: Settings{DefaultTarget: "$HOME"},
			Linking: Linking{
				ConflictResolution: ConflictFail,
				TreeFolding:        FoldDirectory,
				BackupConflicts:    true,
				BackupSuffix:       "bkp",
				ScanDepth:          5,
			},
		}
	}
	return cfg
}

var globalConfig *Config

// Initialize sets the process-wide configuration used by Get. The CLI
// layer calls this once at startup after resolving flags; library
// packages never call it themselves.
func Initialize(cfg *Config) {
	if cfg == nil {
		cfg = Default()
	}
	globalConfig = cfg
}

// Get returns the current process-wide configuration, initializing it
// to Default on first use.
func Get() *Config {
	if globalConfig == nil {
		Initialize(nil)
	}
	return globalConfig
}
