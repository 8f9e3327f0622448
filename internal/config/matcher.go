package config

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher tests root-relative paths against the ignore-pattern set.
//
// A pattern matches when any of the following holds:
//   - it matches the full relative path as a glob,
//   - it matches the path's basename as a glob (so "*.log" applies at any
//     depth),
//   - it occurs in the path as a plain substring,
//   - it is a directory-style pattern ("dir/*") and the path is that
//     directory or anything beneath it.
//
// The substring check is deliberately broad: a pattern like "env" matches
// any path containing "env" anywhere, not just a directory named "env".
// Kept for compatibility with existing ignore lists; narrow patterns to
// globs if this over-matches.
type Matcher struct {
	patterns []string
}

// NewMatcher creates a matcher over the given patterns.
func NewMatcher(patterns []string) *Matcher {
	return &Matcher{patterns: patterns}
}

// Matcher returns a matcher over the config's ignore patterns.
func (c *Config) Matcher() *Matcher {
	return NewMatcher(c.IgnorePatterns)
}

// Match reports whether the relative path (slash-separated) is ignored.
func (m *Matcher) Match(rel string) bool {
	base := path.Base(rel)
	for _, p := range m.patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
		if strings.Contains(rel, p) {
			return true
		}
		if dir, found := strings.CutSuffix(p, "/*"); found {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
		}
	}
	return false
}
