// Package refs extracts raw reference strings from file content and
// resolves them to tracked files.
package refs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// patternGroup is a named list of compiled reference patterns.
type patternGroup struct {
	name     string
	patterns []*regexp.Regexp
}

// Extractor applies the configured pattern groups to file content.
// Each pattern has exactly one capture group yielding the raw reference.
type Extractor struct {
	groups []patternGroup
}

// NewExtractor compiles the pattern groups. Patterns that fail to compile
// or do not have exactly one capture group are rejected.
func NewExtractor(groups map[string][]string) (*Extractor, error) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	e := &Extractor{}
	for _, name := range names {
		group := patternGroup{name: name}
		for _, raw := range groups[name] {
			re, err := regexp.Compile(raw)
			if err != nil {
				return nil, fmt.Errorf("pattern %q in group %q: %w", raw, name, err)
			}
			if re.NumSubexp() != 1 {
				return nil, fmt.Errorf("pattern %q in group %q: want exactly 1 capture group, got %d",
					raw, name, re.NumSubexp())
			}
			group.patterns = append(group.patterns, re)
		}
		e.groups = append(e.groups, group)
	}
	return e, nil
}

// Extract returns the distinct raw references found in content, sorted.
// Content is decoded best-effort: invalid UTF-8 bytes are replaced rather
// than aborting the file.
func (e *Extractor) Extract(content []byte) []string {
	text := strings.ToValidUTF8(string(content), "�")

	seen := make(map[string]struct{})
	for _, group := range e.groups {
		for _, re := range group.patterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if m[1] != "" {
					seen[m[1]] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for ref := range seen {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}
