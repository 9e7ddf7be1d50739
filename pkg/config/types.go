package config

// ConflictResolution selects how the Linker reacts to a pre-existing
// entry at a target path (spec.md §4.5, §6).
type ConflictResolution string

const (
	ConflictFail    ConflictResolution = "fail"
	ConflictSkip    ConflictResolution = "skip"
	ConflictAdopt   ConflictResolution = "adopt"
	ConflictReplace ConflictResolution = "replace"
)

// TreeFolding selects how TreeAnalyzer decides between a single folded
// symlink and per-leaf symlinks for a module subdirectory (spec.md §4.4).
type TreeFolding string

const (
	FoldDirectory  TreeFolding = "directory"
	FoldAggressive TreeFolding = "aggressive"
)

// GitConflictResolution selects how the git collaborator reacts to a
// divergent remote (spec.md §6, [git] section). The linking core never
// reads this value; it exists for pkg/vcs and the CLI sync workflow.
type GitConflictResolution string

const (
	GitConflictLocal  GitConflictResolution = "local"
	GitConflictRemote GitConflictResolution = "remote"
	GitConflictAsk    GitConflictResolution = "ask"
)

// Settings holds the [settings] section.
type Settings struct {
	DefaultTarget string `koanf:"default_target" toml:"default_target"`
	Verbose       bool   `koanf:"verbose" toml:"verbose"`
}

// Linking holds the [linking] section — the schema the Linker and
// TreeAnalyzer are configured from (spec.md §6).
type Linking struct {
	ConflictResolution ConflictResolution `koanf:"conflict_resolution" toml:"conflict_resolution"`
	TreeFolding        TreeFolding        `koanf:"tree_folding" toml:"tree_folding"`
	BackupConflicts    bool               `koanf:"backup_conflicts" toml:"backup_conflicts"`
	BackupSuffix       string             `koanf:"backup_suffix" toml:"backup_suffix"`
	ScanDepth          uint32             `koanf:"scan_depth" toml:"scan_depth"`
	IgnorePatterns     []string           `koanf:"ignore_patterns" toml:"ignore_patterns"`
}

// Git holds the [git] section, consumed by pkg/vcs and the CLI sync
// workflow — never by pkg/linker or pkg/analyzer.
type Git struct {
	ConflictResolution    GitConflictResolution `koanf:"conflict_resolution" toml:"conflict_resolution"`
	CommitMessageTemplate string                `koanf:"commit_message_template" toml:"commit_message_template"`
}

// Repository describes one [[repository]] entry.
type Repository struct {
	Name       string `koanf:"name" toml:"name"`
	Path       string `koanf:"path" toml:"path"`
	Remote     string `koanf:"remote" toml:"remote"`
	Branch     string `koanf:"branch" toml:"branch"`
	AutoCommit bool   `koanf:"auto_commit" toml:"auto_commit"`
}

// Config is the fully resolved, already-parsed configuration handed to
// the core (spec.md §6: "read and handed to the core as already-parsed
// values — the core does not parse TOML itself").
type Config struct {
	Settings     Settings     `koanf:"settings" toml:"settings"`
	Linking      Linking      `koanf:"linking" toml:"linking"`
	Git          Git          `koanf:"git" toml:"git"`
	Repositories []Repository `koanf:"repository" toml:"repository"`
}

// Validate checks enum fields against their allowed value sets. Callers
// run this once after loading; pkg/linker trusts the values it receives.
func (c *Config) Validate() error {
	switch c.Linking.ConflictResolution {
	case ConflictFail, ConflictSkip, ConflictAdopt, ConflictReplace:
	default:
		return newValidationError("linking.conflict_resolution", string(c.Linking.ConflictResolution))
	}

	switch c.Linking.TreeFolding {
	case FoldDirectory, FoldAggressive:
	default:
		return newValidationError("linking.tree_folding", string(c.Linking.TreeFolding))
	}

	if c.Linking.ScanDepth < 1 {
		return newValidationError("linking.scan_depth", "must be >= 1")
	}

	switch c.Git.ConflictResolution {
	case GitConflictLocal, GitConflictRemote, GitConflictAsk, "":
	default:
		return newValidationError("git.conflict_resolution", string(c.Git.ConflictResolution))
	}

	return nil
}
