package refs

import (
	"path"
	"strings"

	"github.com/deadwood-dev/deadwood/internal/walker"
)

// Resolver maps raw reference strings to tracked-universe paths.
//
// Resolution is heuristic: references are tried relative to the referrer's
// directory, then relative to the repository root, and extension-less
// references are probed with a fixed list of common source extensions.
// False resolutions and misses are accepted trade-offs; candidates must be
// members of the snapshot, so dangling references resolve to nothing.
type Resolver struct {
	snap      *walker.Snapshot
	probeExts []string
}

// NewResolver creates a resolver over a snapshot.
func NewResolver(snap *walker.Snapshot, probeExts []string) *Resolver {
	return &Resolver{snap: snap, probeExts: probeExts}
}

// Resolve returns the tracked paths a raw reference could denote, given the
// root-relative path of the file that contained it. Zero results is valid.
func (r *Resolver) Resolve(ref, referrer string) []string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	baseDir := path.Dir(referrer)
	seen := make(map[string]struct{})
	var resolved []string

	add := func(candidate string) {
		if !r.snap.Contains(candidate) {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		resolved = append(resolved, candidate)
	}

	add(joinRel(baseDir, ref))
	add(joinRoot(ref))

	if path.Ext(ref) == "" {
		for _, ext := range r.probeExts {
			probe := ref + ext
			if rel := joinRel(baseDir, probe); r.snap.Contains(rel) {
				add(rel)
			} else {
				add(joinRoot(probe))
			}
		}
	}

	return resolved
}

// joinRel joins a reference to the referrer's directory, normalized to a
// root-relative path. References escaping the root come back with a ".."
// prefix and can never be snapshot members.
func joinRel(baseDir, ref string) string {
	return path.Join(baseDir, ref)
}

// joinRoot treats a reference as root-relative, tolerating a leading slash.
func joinRoot(ref string) string {
	return path.Clean(strings.TrimPrefix(ref, "/"))
}
