package style

import (
	"strings"
	"testing"
)

func TestRenderTargetStatus(t *testing.T) {
	tests := []struct {
		name     string
		ts       TargetStatus
		contains []string
	}{
		{
			name:     "linked with no detail",
			ts:       TargetStatus{RelPath: ".vimrc", Status: StatusLinked},
			contains: []string{"linked", ".vimrc"},
		},
		{
			name:     "conflict carries a detail",
			ts:       TargetStatus{RelPath: ".bashrc", Status: StatusConflict, Detail: "existing_file: /home/user/.bashrc"},
			contains: []string{"conflict", ".bashrc", "existing_file"},
		},
		{
			name:     "ignored module",
			ts:       TargetStatus{RelPath: "scratch", Status: StatusIgnored},
			contains: []string{"ignored", "scratch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderTargetStatus(tt.ts)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q, got %q", expected, result)
				}
			}
		})
	}
}

func TestRenderModuleReport_IgnoredModuleSkipsTargets(t *testing.T) {
	r := ModuleReport{
		Name:   "scratch",
		Status: StatusIgnored,
		Targets: []TargetStatus{
			{RelPath: "whatever", Status: StatusLinked},
		},
	}

	result := RenderModuleReport(r)
	if !strings.Contains(result, "ignore = true in .ndmgr") {
		t.Errorf("expected ignored-module note, got %q", result)
	}
	if strings.Contains(result, "whatever") {
		t.Errorf("expected targets to be skipped for an ignored module, got %q", result)
	}
}

func TestRenderModuleReport_RendersEveryTarget(t *testing.T) {
	r := ModuleReport{
		Name:   "vim",
		Status: StatusLinked,
		Targets: []TargetStatus{
			{RelPath: ".vimrc", Status: StatusLinked},
			{RelPath: ".vim", Status: StatusLinked},
		},
	}

	result := RenderModuleReport(r)
	for _, expected := range []string{"vim:", ".vimrc", ".vim"} {
		if !strings.Contains(result, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, result)
		}
	}
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		targets  []TargetStatus
		expected Status
	}{
		{
			name: "all linked",
			targets: []TargetStatus{
				{Status: StatusLinked},
				{Status: StatusLinked},
			},
			expected: StatusLinked,
		},
		{
			name: "one error wins over everything",
			targets: []TargetStatus{
				{Status: StatusLinked},
				{Status: StatusError},
				{Status: StatusConflict},
			},
			expected: StatusError,
		},
		{
			name: "conflict wins over linked",
			targets: []TargetStatus{
				{Status: StatusLinked},
				{Status: StatusConflict},
			},
			expected: StatusConflict,
		},
		{
			name: "all skipped or foreign collapses to skipped",
			targets: []TargetStatus{
				{Status: StatusSkipped},
				{Status: StatusForeign},
			},
			expected: StatusSkipped,
		},
		{
			name:     "no targets defaults to linked",
			targets:  []TargetStatus{},
			expected: StatusLinked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AggregateStatus(tt.targets)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}
