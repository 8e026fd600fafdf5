package sources

import (
	ignore "github.com/sabhiram/go-gitignore"
)

// Excluder skips remote log files matching gitignore-style patterns.
// Paths are relative to the source's log directory. A nil Excluder
// excludes nothing.
type Excluder struct {
	matcher  *ignore.GitIgnore
	patterns []string
}

// NewExcluder compiles patterns. It returns nil when there are none.
func NewExcluder(patterns []string) *Excluder {
	if len(patterns) == 0 {
		return nil
	}

	return &Excluder{
		matcher:  ignore.CompileIgnoreLines(patterns...),
		patterns: patterns,
	}
}

// ShouldExclude returns true if relPath matches any pattern
func (e *Excluder) ShouldExclude(relPath string) bool {
	if e == nil {
		return false
	}
	return e.matcher.MatchesPath(relPath)
}

// Patterns returns the configured patterns
func (e *Excluder) Patterns() []string {
	if e == nil {
		return nil
	}
	return e.patterns
}
