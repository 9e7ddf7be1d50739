package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	// Primary colors
	PrimaryColor = lipgloss.AdaptiveColor{
		Light: "#007ACC", // Blue
		Dark:  "#3D9EFF",
	}

	SecondaryColor = lipgloss.AdaptiveColor{
		Light: "#6C757D", // Gray
		Dark:  "#A0A8B0",
	}

	// Status colors
	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745", // Green
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545", // Red
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107", // Amber
		Dark:  "#FFD54F",
	}

	InfoColor = lipgloss.AdaptiveColor{
		Light: "#17A2B8", // Cyan
		Dark:  "#4DD0E1",
	}

	// Text colors
	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529", // Almost black
		Dark:  "#F8F9FA", // Almost white
	}

	TextColor = lipgloss.AdaptiveColor{
		Light: "#495057", // Dark gray
		Dark:  "#E9ECEF", // Light gray
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D", // Medium gray
		Dark:  "#ADB5BD",
	}

	// Background colors
	BackgroundColor = lipgloss.AdaptiveColor{
		Light: "#FFFFFF", // White
		Dark:  "#1A1B26", // Dark blue-gray
	}

	SurfaceColor = lipgloss.AdaptiveColor{
		Light: "#F8F9FA", // Very light gray
		Dark:  "#24253A", // Slightly lighter than background
	}

	BorderColor = lipgloss.AdaptiveColor{
		Light: "#DEE2E6", // Light gray
		Dark:  "#3B3C4F",
	}
)

// Link-operation colors, one per markup tag registered in NewMarkupParser.
// Unlike the base palette above, these name ndmgr's own vocabulary of
// what happens to a target path during a link or unlink run, not a
// generic UI role.
var (
	SymlinkColor = lipgloss.AdaptiveColor{
		Light: "#0EA5E9", // Sky blue — a fresh symlink was created
		Dark:  "#38BDF8",
	}

	AdoptColor = lipgloss.AdaptiveColor{
		Light: "#8B5CF6", // Purple — pre-existing data pulled into the module
		Dark:  "#A78BFA",
	}

	BackupColor = lipgloss.AdaptiveColor{
		Light: "#F59E0B", // Orange — existing data moved aside before replace
		Dark:  "#FBBF24",
	}

	ConflictColor = lipgloss.AdaptiveColor{
		Light: "#E11D48", // Rose — distinct from ErrorColor so a policy
		Dark:  "#FB7185", // conflict doesn't read as a hard failure
	}

	UnlinkColor = lipgloss.AdaptiveColor{
		Light: "#64748B", // Slate — a managed symlink was removed
		Dark:  "#94A3B8",
	}
)
