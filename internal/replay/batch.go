package replay

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// listRequestFiles enumerates request payloads under a batch directory,
// excluding header sidecars and files whose name starts with "_" (spec §6,
// "Files ending in .headers.json or starting with _ are not request
// payloads"). Results are sorted for deterministic worker assignment.
func listRequestFiles(root string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(rel)
		if strings.HasSuffix(base, ".headers.json") || strings.HasPrefix(base, "_") {
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}

func headersSidecarPath(relPath string) string {
	return relPath + ".headers.json"
}

func contentTypeFor(relPath string) string {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".xml":
		return "application/xml"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
