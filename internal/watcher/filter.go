package watcher

import (
	"path/filepath"
	"strings"

	"callreport/internal/overview"
	"callreport/internal/summary"
)

// DefaultIgnorePatterns returns the default glob patterns for in-flight
// files that should never trigger a report run.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.download",
		"*.partial",
		".~*",
	}
}

// artifactNames lists every file a report run writes. Events for these must
// be ignored or each run would trigger the next one.
var artifactNames = []string{
	summary.SummaryFile,
	summary.OutgoingFile,
	summary.IncomingFile,
	summary.DeactivationFile,
	overview.OverviewFile,
	overview.HourlyFile,
}

// FileFilter decides which filesystem events are worth a report run.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter with the given patterns. Empty patterns
// fall back to the defaults. Report artifacts are always ignored.
func NewFileFilter(patterns []string) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{patterns: patterns}
}

// ShouldIgnore reports whether an event for path should be dropped. It
// matches the base name against the report's own artifacts, atomic-write
// temp files, and the configured glob patterns.
func (f *FileFilter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, artifact := range artifactNames {
		if filename == artifact {
			return true
		}
	}
	// Atomic writes go through a dotted ".<name>.tmp-*" file in the target
	// directory.
	if strings.HasPrefix(filename, ".") && strings.Contains(filename, ".tmp") {
		return true
	}

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the configured ignore patterns.
func (f *FileFilter) Patterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}
