package config

import (
	"strings"
	"time"
)

// civilDate formats t as a YYYY-MM-DD civil date, the only date
// substitution backup_suffix and commit_message_template support (via
// the literal {date} placeholder). This resolves spec.md §9's date-
// formatting open question in favor of Go's calendar-aware time
// package rather than a days/365 approximation.
func civilDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// RenderBackupSuffix expands a {date} placeholder in a backup_suffix
// template, normalizing away a leading dot per spec.md §4.5.3 ("bkp"
// and ".bkp" yield the same result).
func RenderBackupSuffix(suffix string, now time.Time) string {
	suffix = strings.TrimPrefix(suffix, ".")
	return strings.ReplaceAll(suffix, "{date}", civilDate(now))
}

// RenderCommitMessage expands a {date} placeholder in a git commit
// message template.
func RenderCommitMessage(template string, now time.Time) string {
	return strings.ReplaceAll(template, "{date}", civilDate(now))
}
