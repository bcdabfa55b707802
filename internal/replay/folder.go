package replay

import (
	"context"
	"sort"

	"github.com/tayzer/compareengine/internal/discovery"
)

// filePair is one pairing candidate produced by folder discovery: a
// relative path present on side A, side B, or both.
type filePair struct {
	relPath string
	fileA   *discovery.DiscoveredFile
	fileB   *discovery.DiscoveredFile
}

// discoverPairs walks both directories with the discovery walker and pairs
// files by relative path. When includeAll is false, a
// file present on only one side is skipped entirely rather than surfaced
// as an error pair (spec §8, "Files present only on one side with
// include_all=true -> pair with error; with false -> skipped").
func discoverPairs(ctx context.Context, dirA, dirB string, includeAll bool) ([]filePair, error) {
	w := discovery.NewWalker()

	resA, err := w.Walk(ctx, discovery.WalkerConfig{Root: dirA})
	if err != nil {
		return nil, err
	}
	resB, err := w.Walk(ctx, discovery.WalkerConfig{Root: dirB})
	if err != nil {
		return nil, err
	}

	byPathA := make(map[string]*discovery.DiscoveredFile, len(resA.Files))
	for i := range resA.Files {
		byPathA[resA.Files[i].Path] = &resA.Files[i]
	}
	byPathB := make(map[string]*discovery.DiscoveredFile, len(resB.Files))
	for i := range resB.Files {
		byPathB[resB.Files[i].Path] = &resB.Files[i]
	}

	union := make(map[string]struct{}, len(byPathA)+len(byPathB))
	for p := range byPathA {
		union[p] = struct{}{}
	}
	for p := range byPathB {
		union[p] = struct{}{}
	}
	rels := make([]string, 0, len(union))
	for p := range union {
		rels = append(rels, p)
	}
	sort.Strings(rels)

	pairs := make([]filePair, 0, len(rels))
	for _, rel := range rels {
		fa, okA := byPathA[rel]
		fb, okB := byPathB[rel]
		if (!okA || !okB) && !includeAll {
			continue
		}
		pairs = append(pairs, filePair{relPath: rel, fileA: fa, fileB: fb})
	}
	return pairs, nil
}
