// Package dupes finds byte-identical files in the tracked universe.
package dupes

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/deadwood-dev/deadwood/internal/fileproc"
	"github.com/deadwood-dev/deadwood/internal/walker"
)

// Group is a set of files with identical content.
type Group struct {
	Hash  string   `json:"hash"`
	Size  int64    `json:"size"`
	Paths []string `json:"paths"`
}

// Analysis is the duplicate-detection result.
type Analysis struct {
	Groups      []Group `json:"groups"`
	FilesHashed int     `json:"files_hashed"`
}

// hashed is one file's content hash.
type hashed struct {
	path string
	size int64
	sum  uint64
}

// Analyze hashes every tracked file and groups exact duplicates. Files
// that cannot be read are skipped. Groups and their members are sorted,
// so output is deterministic.
func Analyze(ctx context.Context, snap *walker.Snapshot, onProgress fileproc.ProgressFunc) (*Analysis, error) {
	paths := snap.Paths()

	results, err := fileproc.ForEachFileCtx(ctx, paths, func(path string) (hashed, error) {
		content, err := os.ReadFile(snap.Files[path].Abs)
		if err != nil {
			return hashed{}, fileproc.ProcessingError{Path: path, Err: err}
		}
		return hashed{
			path: path,
			size: int64(len(content)),
			sum:  xxhash.Sum64(content),
		}, nil
	}, onProgress, nil)
	if err != nil {
		return nil, err
	}

	byHash := make(map[uint64][]hashed)
	for _, h := range results {
		byHash[h.sum] = append(byHash[h.sum], h)
	}

	analysis := &Analysis{FilesHashed: len(results), Groups: []Group{}}
	for sum, members := range byHash {
		if len(members) < 2 {
			continue
		}
		group := Group{
			Hash: fmt.Sprintf("%016x", sum),
			Size: members[0].size,
		}
		for _, m := range members {
			group.Paths = append(group.Paths, m.path)
		}
		sort.Strings(group.Paths)
		analysis.Groups = append(analysis.Groups, group)
	}

	sort.Slice(analysis.Groups, func(i, j int) bool {
		return analysis.Groups[i].Paths[0] < analysis.Groups[j].Paths[0]
	})
	return analysis, nil
}
