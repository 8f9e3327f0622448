package classify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadwood-dev/deadwood/internal/config"
	"github.com/deadwood-dev/deadwood/internal/graph"
	"github.com/deadwood-dev/deadwood/internal/walker"
)

// classifyTree scans a fixture tree, builds the graph, and classifies.
func classifyTree(t *testing.T, files map[string]string) (*walker.Snapshot, *Result) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	cfg := config.DefaultConfig()
	snap, err := walker.New(cfg).Walk(dir)
	require.NoError(t, err)

	g, err := graph.NewBuilder(cfg).Build(context.Background(), snap)
	require.NoError(t, err)

	result, err := Classify(snap, g, cfg)
	require.NoError(t, err)
	return snap, result
}

func TestEmptySnapshot(t *testing.T) {
	_, err := Classify(&walker.Snapshot{Files: map[string]walker.File{}}, nil, nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = Classify(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

// An entry point next to a referenced helper in a populated directory.
func TestEntryPointWithReferencedHelper(t *testing.T) {
	_, result := classifyTree(t, map[string]string{
		"main.py":   "import utils\n",
		"utils.py":  "x = 1\n",
		"one.txt":   "unrelated\n",
		"two.txt":   "unrelated\n",
		"three.txt": "unrelated\n",
	})

	// utils.py is live: excluded from every dead set.
	assert.NotContains(t, result.Unreferenced, "utils.py")
	assert.NotContains(t, result.Orphaned, "utils.py")
	assert.NotContains(t, result.Suspicious, "utils.py")

	// main.py matches the entry-point heuristic and shares its directory
	// with other files, so it is suspicious, not orphaned.
	assert.Contains(t, result.Suspicious, "main.py")
	assert.NotContains(t, result.Orphaned, "main.py")
	assert.NotContains(t, result.Unreferenced, "main.py")
}

// A single-occupant directory with an unreferenced file.
func TestOrphanedSoloFile(t *testing.T) {
	_, result := classifyTree(t, map[string]string{
		"src/app.js":              "live()\n",
		"legacy/legacy_helper.js": "old()\n",
	})

	assert.Contains(t, result.Orphaned, "legacy/legacy_helper.js")
	assert.NotContains(t, result.Unreferenced, "legacy/legacy_helper.js")
}

// Two unreferenced files sharing a directory stay unreferenced.
func TestUnreferencedPairNotOrphaned(t *testing.T) {
	_, result := classifyTree(t, map[string]string{
		"notes/old_notes.txt": "a\n",
		"notes/draft.txt":     "b\n",
	})

	assert.Contains(t, result.Unreferenced, "notes/old_notes.txt")
	assert.Contains(t, result.Unreferenced, "notes/draft.txt")
	assert.Empty(t, result.Orphaned)
}

// Special files are exempt regardless of references.
func TestSpecialFilesExempt(t *testing.T) {
	_, result := classifyTree(t, map[string]string{
		"README.md":  "# nothing references this\n",
		"Makefile":   "all:\n",
		"feature.py": "x\n",
	})

	for _, set := range [][]string{result.Unreferenced, result.Orphaned, result.Suspicious} {
		assert.NotContains(t, set, "README.md")
		assert.NotContains(t, set, "Makefile")
	}
}

// Entry-point precedence: a sole-occupant entry point is suspicious,
// never orphaned.
func TestEntryPointNeverOrphaned(t *testing.T) {
	_, result := classifyTree(t, map[string]string{
		"svc/main.go": "package main\n",
		"other.txt":   "x\n",
	})

	assert.Contains(t, result.Suspicious, "svc/main.go")
	assert.NotContains(t, result.Orphaned, "svc/main.go")
}

func TestDisjointAndExhaustive(t *testing.T) {
	snap, result := classifyTree(t, map[string]string{
		"main.py":      "import utils\n",
		"utils.py":     "x\n",
		"README.md":    "docs\n",
		"loose.txt":    "x\n",
		"stale/a.txt":  "x\n",
		"misc/one.txt": "x\n",
		"misc/two.txt": "x\n",
	})

	membership := make(map[string]int)
	for _, p := range result.Unreferenced {
		membership[p]++
	}
	for _, p := range result.Orphaned {
		membership[p]++
	}
	for _, p := range result.Suspicious {
		membership[p]++
	}
	for p, n := range membership {
		assert.Equal(t, 1, n, "%s appears in %d categories", p, n)
	}

	// Union of dead categories + live/special files covers the universe.
	live := 0
	for _, p := range snap.Paths() {
		if membership[p] == 0 {
			live++
		}
	}
	assert.Equal(t, len(snap.Files), live+result.Total())
}

func TestOrphanImpliesSoloDirectory(t *testing.T) {
	snap, result := classifyTree(t, map[string]string{
		"a/only.txt": "x\n",
		"b/one.txt":  "x\n",
		"b/two.txt":  "x\n",
		"top.txt":    "x\n",
		"other.txt":  "x\n",
	})

	for _, p := range result.Orphaned {
		dir := dirOf(p)
		assert.Equal(t, 1, snap.DirCounts[dir], "orphan %s lives in a directory with %d files", p, snap.DirCounts[dir])
	}
	assert.Contains(t, result.Orphaned, "a/only.txt")
}

func TestDeterministicOrder(t *testing.T) {
	files := map[string]string{
		"z.txt": "x\n",
		"a.txt": "x\n",
		"m.txt": "x\n",
	}
	_, r1 := classifyTree(t, files)
	_, r2 := classifyTree(t, files)

	assert.Equal(t, r1.Unreferenced, r2.Unreferenced)
	assert.IsIncreasing(t, r1.Unreferenced)
}
