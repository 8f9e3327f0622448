// Package graph builds the reverse reference graph: for every referenced
// file, the set of files that reference it.
package graph

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/deadwood-dev/deadwood/internal/config"
	"github.com/deadwood-dev/deadwood/internal/fileproc"
	"github.com/deadwood-dev/deadwood/internal/refs"
	"github.com/deadwood-dev/deadwood/internal/walker"
)

// Graph maps a referenced file's root-relative path to the set of
// referrer paths. Multiplicity of raw references is collapsed; only
// reachability matters downstream. Immutable once built.
type Graph struct {
	refs map[string]map[string]struct{}
}

// HasReferrers reports whether any tracked file references path.
func (g *Graph) HasReferrers(path string) bool {
	return len(g.refs[path]) > 0
}

// Referrers returns the sorted referrer paths for a referenced file.
func (g *Graph) Referrers(path string) []string {
	set := g.refs[path]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ReferencedCount returns the number of files with at least one referrer.
func (g *Graph) ReferencedCount() int {
	return len(g.refs)
}

func (g *Graph) add(referenced, referrer string) {
	set, ok := g.refs[referenced]
	if !ok {
		set = make(map[string]struct{})
		g.refs[referenced] = set
	}
	set[referrer] = struct{}{}
}

// edge is one resolved (referenced, referrer) pair.
type edge struct {
	referenced string
	referrer   string
}

// Builder runs extraction and resolution over a snapshot's scannable
// files and accumulates the graph.
type Builder struct {
	cfg        *config.Config
	onProgress fileproc.ProgressFunc
	onError    fileproc.ErrorFunc
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress sets a per-file progress callback.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(b *Builder) {
		b.onProgress = fn
	}
}

// WithErrorFunc sets a callback for files that could not be read.
func WithErrorFunc(fn fileproc.ErrorFunc) Option {
	return func(b *Builder) {
		b.onError = fn
	}
}

// NewBuilder creates a graph builder. A nil config means defaults.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	b := &Builder{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build extracts and resolves references from every scannable file in the
// snapshot, in parallel. Edges only land on snapshot members, and the
// merge is a set union, so the result is independent of worker
// interleaving. Unreadable files are skipped. A canceled context aborts
// the build and discards partial results.
func (b *Builder) Build(ctx context.Context, snap *walker.Snapshot) (*Graph, error) {
	extractor, err := refs.NewExtractor(b.cfg.ReferencePatterns)
	if err != nil {
		return nil, fmt.Errorf("compile reference patterns: %w", err)
	}
	resolver := refs.NewResolver(snap, b.cfg.ProbeExtensions)

	scannable := snap.Scannable()
	paths := make([]string, len(scannable))
	byPath := make(map[string]walker.File, len(scannable))
	for i, f := range scannable {
		paths[i] = f.Path
		byPath[f.Path] = f
	}

	edgeLists, err := fileproc.ForEachFileCtx(ctx, paths, func(path string) ([]edge, error) {
		content, err := os.ReadFile(byPath[path].Abs)
		if err != nil {
			return nil, fileproc.ProcessingError{Path: path, Err: err}
		}

		var edges []edge
		for _, raw := range extractor.Extract(content) {
			for _, resolved := range resolver.Resolve(raw, path) {
				edges = append(edges, edge{referenced: resolved, referrer: path})
			}
		}
		return edges, nil
	}, b.onProgress, b.onError)
	if err != nil {
		return nil, err
	}

	g := &Graph{refs: make(map[string]map[string]struct{})}
	for _, edges := range edgeLists {
		for _, e := range edges {
			g.add(e.referenced, e.referrer)
		}
	}
	return g, nil
}
