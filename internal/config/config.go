// Package config holds the scan configuration: ignore patterns, scannable
// extensions, reference-extraction patterns, special files, and size bounds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for deadwood.
type Config struct {
	// IgnorePatterns are tested against root-relative paths. A path is
	// ignored when a pattern matches it as a glob or occurs in it as a
	// substring (see Matcher).
	IgnorePatterns []string `koanf:"ignore_patterns" toml:"ignore_patterns"`

	// ScanExtensions is the set of extensions eligible for reference
	// extraction. Files outside the set are still tracked; they can be
	// referenced but never reference anything themselves.
	ScanExtensions []string `koanf:"scan_extensions" toml:"scan_extensions"`

	// ReferencePatterns maps a group name ("import", "file_path") to a
	// list of regular expressions, each with exactly one capture group
	// yielding the raw reference string.
	ReferencePatterns map[string][]string `koanf:"reference_patterns" toml:"reference_patterns"`

	// SpecialFiles are basenames exempt from dead classification.
	SpecialFiles []string `koanf:"special_files" toml:"special_files"`

	// ProbeExtensions are appended to extension-less references during
	// resolution, one at a time.
	ProbeExtensions []string `koanf:"probe_extensions" toml:"probe_extensions"`

	// EntryPointPrefixes are lowercase basename prefixes that mark a file
	// as a likely entry point (suspicious rather than unreferenced).
	EntryPointPrefixes []string `koanf:"entry_points" toml:"entry_points"`

	// MinFileSize and MaxFileSize bound tracked files, in bytes, inclusive.
	MinFileSize int64 `koanf:"min_file_size" toml:"min_file_size"`
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size"`

	// Gitignore adds patterns from the repository's .gitignore files to
	// the ignore set.
	Gitignore bool `koanf:"gitignore" toml:"gitignore"`

	Output OutputConfig `koanf:"output" toml:"output"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		IgnorePatterns: []string{
			".git/*",
			"*.log",
			"*.tmp",
			"node_modules/*",
			"__pycache__/*",
			"*.pyc",
			".pytest_cache/*",
			"venv/*",
			"env/*",
			".env",
			"dist/*",
			"build/*",
			"target/*",
			".DS_Store",
			"*.swp",
			"*.bak",
			"coverage/*",
			".coverage",
			".tox/*",
		},
		ScanExtensions: []string{
			".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".c", ".cpp",
			".h", ".hpp", ".cs", ".php", ".rb", ".go", ".rs", ".swift",
			".kt", ".scala", ".sh", ".bash", ".ps1", ".sql", ".html",
			".css", ".scss", ".sass", ".less", ".vue", ".yaml", ".yml",
			".json", ".xml", ".md", ".txt", ".cfg", ".conf", ".ini",
		},
		ReferencePatterns: map[string][]string{
			"import": {
				`import\s+(?:.*\s+from\s+)?['"]([^'"]+)['"]`,
				`(?m)^\s*import\s+([A-Za-z_][A-Za-z0-9_.]*)`,
				`(?m)^\s*from\s+([A-Za-z_][A-Za-z0-9_.]*)\s+import`,
				`from\s+['"]([^'"]+)['"]\s+import`,
				`require\s*\(\s*['"]([^'"]+)['"]\s*\)`,
				`#include\s*[<"]([^>"]+)[>"]`,
				`@import\s+['"]([^'"]+)['"]`,
			},
			"file_path": {
				`['"]([^'"]*\.[a-zA-Z0-9]+)['"]`,
				`src=['"]([^'"]+)['"]`,
				`href=['"]([^'"]+)['"]`,
			},
		},
		SpecialFiles: []string{
			"README.md", "LICENSE", "CHANGELOG.md", "CONTRIBUTING.md",
			"requirements.txt", "package.json", "Dockerfile", "Makefile",
			".gitignore", ".dockerignore", "setup.py", "pyproject.toml",
			"Cargo.toml", "pom.xml", "build.gradle", "composer.json",
		},
		ProbeExtensions: []string{".py", ".js", ".ts", ".java", ".cpp"},
		EntryPointPrefixes: []string{
			"main.", "index.", "app.", "server.", "start.",
			"run.", "__init__.", "setup.", "config.", "settings.",
		},
		MinFileSize: 1,
		MaxFileSize: 10 * 1024 * 1024,
		Gitignore:   false,
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, merging it over defaults.
// The parser is selected by extension (TOML, YAML, or JSON); unknown
// extensions are treated as JSON. The raw document is validated against
// the embedded schema before unmarshaling. Unknown keys are ignored.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		parser = json.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := validateRaw(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults. A broken config file in a standard location is skipped.
func LoadOrDefault() *Config {
	names := []string{
		"deadwood.toml",
		"deadwood.yaml",
		"deadwood.yml",
		"deadwood.json",
		".deadwood.toml",
		".deadwood.yaml",
		".deadwood.yml",
		".deadwood.json",
	}

	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ScanExtensionSet returns the scan extensions as a lookup set,
// lowercased with the leading dot preserved.
func (c *Config) ScanExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ScanExtensions))
	for _, ext := range c.ScanExtensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

// SpecialFileSet returns the special-file basenames as a lookup set.
func (c *Config) SpecialFileSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.SpecialFiles))
	for _, name := range c.SpecialFiles {
		set[name] = struct{}{}
	}
	return set
}

// IsEntryPoint reports whether a basename matches one of the configured
// entry-point prefixes, case-insensitively.
func (c *Config) IsEntryPoint(base string) bool {
	lower := strings.ToLower(base)
	for _, prefix := range c.EntryPointPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// SizeInBounds reports whether a file size falls within the configured
// inclusive bounds. A zero MaxFileSize means unbounded above.
func (c *Config) SizeInBounds(size int64) bool {
	if size < c.MinFileSize {
		return false
	}
	if c.MaxFileSize > 0 && size > c.MaxFileSize {
		return false
	}
	return true
}
