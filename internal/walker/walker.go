// Package walker builds the tracked-file universe for one scan.
package walker

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/deadwood-dev/deadwood/internal/config"
)

// File is a tracked file. Created during traversal, immutable afterward.
type File struct {
	// Path is root-relative and slash-separated.
	Path string
	// Abs is the absolute path on disk, used for reading content.
	Abs       string
	Size      int64
	Ext       string
	Base      string
	Scannable bool
}

// Snapshot is the immutable result of one traversal: the tracked universe
// plus per-directory occupancy. It is safe for concurrent readers.
type Snapshot struct {
	// Root is the absolute path of the scanned directory.
	Root string
	// Files maps root-relative paths to tracked files.
	Files map[string]File
	// DirCounts maps a root-relative directory ("." for the root) to the
	// number of tracked files directly inside it.
	DirCounts map[string]int
}

// Contains reports whether a root-relative path is in the tracked universe.
func (s *Snapshot) Contains(rel string) bool {
	_, ok := s.Files[rel]
	return ok
}

// Scannable returns the tracked files eligible for reference extraction,
// sorted by path.
func (s *Snapshot) Scannable() []File {
	var files []File
	for _, f := range s.Files {
		if f.Scannable {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Paths returns all tracked paths, sorted.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// SkipFunc is invoked for every path excluded during traversal, with a
// short reason. Used for verbose output.
type SkipFunc func(rel, reason string)

// Walker traverses a tree applying ignore and size filters.
type Walker struct {
	cfg    *config.Config
	onSkip SkipFunc
}

// Option configures a Walker.
type Option func(*Walker)

// WithSkipFunc sets a callback for skipped paths.
func WithSkipFunc(fn SkipFunc) Option {
	return func(w *Walker) {
		w.onSkip = fn
	}
}

// New creates a walker. A nil config means defaults.
func New(cfg *config.Config, opts ...Option) *Walker {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	w := &Walker{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk traverses root and returns the tracked universe. Ignored directories
// are pruned before descent, so their subtrees are never visited. Files
// failing a stat are skipped, never fatal.
func (w *Walker) Walk(root string) (*Snapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	matcher := w.cfg.Matcher()
	gitMatcher := w.loadGitignore(absRoot)
	scanExts := w.cfg.ScanExtensionSet()

	snap := &Snapshot{
		Root:      absRoot,
		Files:     make(map[string]File),
		DirCounts: make(map[string]int),
	}

	walkErr := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable root is fatal; anything deeper is skipped.
			if p == absRoot {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == absRoot {
			return nil
		}

		relNative, err := filepath.Rel(absRoot, p)
		if err != nil {
			return nil
		}
		rel := filepath.ToSlash(relNative)

		if d.IsDir() {
			if matcher.Match(rel) || w.gitIgnored(gitMatcher, rel, true) {
				w.skip(rel, "ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.Match(rel) || w.gitIgnored(gitMatcher, rel, false) {
			w.skip(rel, "ignored")
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.skip(rel, "stat failed")
			return nil
		}
		if !info.Mode().IsRegular() {
			w.skip(rel, "not a regular file")
			return nil
		}
		if !w.cfg.SizeInBounds(info.Size()) {
			w.skip(rel, "size out of bounds")
			return nil
		}

		ext := strings.ToLower(path.Ext(rel))
		_, scannable := scanExts[ext]

		snap.Files[rel] = File{
			Path:      rel,
			Abs:       p,
			Size:      info.Size(),
			Ext:       ext,
			Base:      path.Base(rel),
			Scannable: scannable,
		}
		snap.DirCounts[relDir(rel)]++

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return snap, nil
}

// relDir returns the root-relative directory of a path, "." for the root.
func relDir(rel string) string {
	return path.Dir(rel)
}

// loadGitignore reads the repository's .gitignore patterns when enabled.
func (w *Walker) loadGitignore(root string) gitignore.Matcher {
	if !w.cfg.Gitignore {
		return nil
	}
	fsys := osfs.New(root)
	patterns, err := gitignore.ReadPatterns(fsys, nil)
	if err != nil || len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

func (w *Walker) gitIgnored(m gitignore.Matcher, rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	return m.Match(strings.Split(rel, "/"), isDir)
}

func (w *Walker) skip(rel, reason string) {
	if w.onSkip != nil {
		w.onSkip(rel, reason)
	}
}
