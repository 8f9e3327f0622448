package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deadwood-dev/deadwood/internal/config"
)

// writeTree creates files under dir, making parent directories as needed.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestWalkTracksFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.py":          "import utils\n",
		"utils.py":         "x = 1\n",
		"docs/notes.txt":   "notes\n",
		"assets/logo.webp": "binarybits\n",
	})

	snap, err := New(nil).Walk(dir)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(snap.Files) != 4 {
		t.Fatalf("tracked %d files, want 4: %v", len(snap.Files), snap.Paths())
	}
	if !snap.Contains("main.py") || !snap.Contains("docs/notes.txt") {
		t.Errorf("expected paths missing from universe: %v", snap.Paths())
	}

	// .webp is not a scan extension: tracked but not scannable.
	if snap.Files["assets/logo.webp"].Scannable {
		t.Error("logo.webp should not be scannable")
	}
	if !snap.Files["main.py"].Scannable {
		t.Error("main.py should be scannable")
	}
}

func TestWalkPrunesIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.py":                 "ok\n",
		".git/config":             "[core]\n",
		".git/objects/ab/blob":    "x\n",
		"node_modules/p/index.js": "x\n",
		"venv/lib/site.py":        "x\n",
		"__pycache__/main.pyc":    "x\n",
		"dist/bundle.js":          "x\n",
	})

	snap, err := New(nil).Walk(dir)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(snap.Files) != 1 {
		t.Errorf("tracked %d files, want 1 (only main.py): %v", len(snap.Files), snap.Paths())
	}
}

func TestWalkSizeBounds(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"empty.py": "",
		"small.py": "x\n",
		"big.py":   "0123456789",
	})

	cfg := config.DefaultConfig()
	cfg.MaxFileSize = 5

	snap, err := New(cfg).Walk(dir)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if snap.Contains("empty.py") {
		t.Error("empty file should be below the minimum size")
	}
	if snap.Contains("big.py") {
		t.Error("big.py should exceed the maximum size")
	}
	if !snap.Contains("small.py") {
		t.Error("small.py should be tracked")
	}
}

func TestWalkDirCounts(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.py":           "x\n",
		"b.py":           "x\n",
		"lonely/only.py": "x\n",
		"full/one.py":    "x\n",
		"full/two.py":    "x\n",
	})

	snap, err := New(nil).Walk(dir)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if got := snap.DirCounts["."]; got != 2 {
		t.Errorf("root dir count = %d, want 2", got)
	}
	if got := snap.DirCounts["lonely"]; got != 1 {
		t.Errorf("lonely dir count = %d, want 1", got)
	}
	if got := snap.DirCounts["full"]; got != 2 {
		t.Errorf("full dir count = %d, want 2", got)
	}
}

func TestWalkGitignore(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".gitignore":     "generated/\n",
		"main.py":        "x\n",
		"generated/g.py": "x\n",
	})

	cfg := config.DefaultConfig()
	cfg.Gitignore = true

	snap, err := New(cfg).Walk(dir)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if snap.Contains("generated/g.py") {
		t.Error("gitignored file should not be tracked")
	}
	if !snap.Contains("main.py") {
		t.Error("main.py should be tracked")
	}
}

func TestWalkSkipCallback(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.py":   "x\n",
		"trace.log": "x\n",
	})

	var skipped []string
	w := New(nil, WithSkipFunc(func(rel, reason string) {
		skipped = append(skipped, rel)
	}))
	if _, err := w.Walk(dir); err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	found := false
	for _, s := range skipped {
		if s == "trace.log" {
			found = true
		}
	}
	if !found {
		t.Errorf("trace.log should be reported as skipped, got %v", skipped)
	}
}

func TestWalkScannableSorted(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"z.py": "x\n",
		"a.py": "x\n",
		"m.py": "x\n",
	})

	snap, err := New(nil).Walk(dir)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	files := snap.Scannable()
	for i := 1; i < len(files); i++ {
		if files[i-1].Path >= files[i].Path {
			t.Fatalf("Scannable() not sorted: %v", files)
		}
	}
}
