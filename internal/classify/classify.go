// Package classify partitions unreferenced files into the dead-candidate
// categories.
package classify

import (
	"errors"
	"sort"

	"github.com/deadwood-dev/deadwood/internal/config"
	"github.com/deadwood-dev/deadwood/internal/graph"
	"github.com/deadwood-dev/deadwood/internal/walker"
)

// ErrNoSnapshot is returned when classification is requested over an
// empty universe, which means no scan has run.
var ErrNoSnapshot = errors.New("classify: empty snapshot, scan the repository first")

// Result is the three-way classification. The categories are pairwise
// disjoint; every dead-candidate lands in exactly one. Paths are
// root-relative and sorted.
type Result struct {
	// Unreferenced files have no inbound references and no other signal.
	Unreferenced []string `json:"unreferenced"`
	// Orphaned files are unreferenced and the sole tracked occupant of
	// their directory, which makes them likely refactoring leftovers.
	Orphaned []string `json:"orphaned"`
	// Suspicious files have no inbound references but match an
	// entry-point naming convention, so they may be reference-free by
	// design.
	Suspicious []string `json:"suspicious"`
}

// Total returns the number of dead-candidate files across all categories.
func (r *Result) Total() int {
	return len(r.Unreferenced) + len(r.Orphaned) + len(r.Suspicious)
}

// Classify partitions the snapshot's dead candidates.
//
// A dead candidate is any tracked, non-special file with no entry in the
// reference graph. Candidates matching an entry-point prefix become
// suspicious; remaining candidates that are the only tracked file in
// their directory become orphaned; the rest are unreferenced. The
// entry-point override runs before the orphan reclassification, so an
// entry point is never reported as orphaned.
func Classify(snap *walker.Snapshot, g *graph.Graph, cfg *config.Config) (*Result, error) {
	if snap == nil || len(snap.Files) == 0 {
		return nil, ErrNoSnapshot
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	special := cfg.SpecialFileSet()
	result := &Result{
		Unreferenced: []string{},
		Orphaned:     []string{},
		Suspicious:   []string{},
	}

	for _, rel := range snap.Paths() {
		f := snap.Files[rel]

		if _, ok := special[f.Base]; ok {
			continue
		}
		if g.HasReferrers(rel) {
			continue
		}

		switch {
		case cfg.IsEntryPoint(f.Base):
			result.Suspicious = append(result.Suspicious, rel)
		case snap.DirCounts[dirOf(rel)] == 1:
			result.Orphaned = append(result.Orphaned, rel)
		default:
			result.Unreferenced = append(result.Unreferenced, rel)
		}
	}

	sort.Strings(result.Unreferenced)
	sort.Strings(result.Orphaned)
	sort.Strings(result.Suspicious)
	return result, nil
}

func dirOf(rel string) string {
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			return rel[:i]
		}
	}
	return "."
}
