package matcher

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"file.txt", "*.txt", true},
		{"file.txt", "*.log", false},
		{"file.txt", "file.*", true},
		{"prefixfile", "*file", true},
		{"anything", "*", true},
		{"exact", "exact", true},
		{"exact", "other", false},
		{"ab", "a*b", true},
		{"a", "a*b", false},
		{".git", ".git", true},
		{"foobar", "foo*bar", true},
		{"foobazbar", "foo*bar", true},
		{"foo", "foo*bar", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			if got := Matches(tt.name, tt.pattern); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{".git", "*.swp", "node_modules"}

	if !MatchesAny(".git", patterns) {
		t.Error("expected .git to match")
	}
	if !MatchesAny("foo.swp", patterns) {
		t.Error("expected foo.swp to match *.swp")
	}
	if MatchesAny("README.md", patterns) {
		t.Error("expected README.md not to match")
	}
	if MatchesAny("anything", nil) {
		t.Error("expected no match against empty pattern list")
	}
}
