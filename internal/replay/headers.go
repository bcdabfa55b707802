// Package replay implements the concurrent request-replay pipeline (C7):
// request batch parsing, dual-endpoint HTTP execution under a shared
// deadline, outcome classification, and folder-compare discovery, feeding
// both into the structural and raw-text differs.
package replay

import (
	"net/http"
	"path"
	"strings"
)

// mergeHeaders builds an http.Header from global per-endpoint headers
// overridden by per-request sidecar headers. http.Header's canonical-key
// storage makes the header-name comparison case-insensitive for free; the
// per-request pass runs second so it always wins (spec §4.7).
func mergeHeaders(global, perRequest map[string]string) http.Header {
	h := make(http.Header, len(global)+len(perRequest))
	for k, v := range global {
		h.Set(k, v)
	}
	for k, v := range perRequest {
		h.Set(k, v)
	}
	return h
}

// sanitizeRelPath prevents a request's relative path from escaping the
// job's temp root when used to build a persisted response path (spec
// §4.7, "Never allow the persisted path to escape the job root").
func sanitizeRelPath(relPath string) string {
	p := strings.ReplaceAll(relPath, "\\", "/")
	p = strings.ReplaceAll(p, "..", "_")
	p = path.Clean(p)
	p = strings.TrimLeft(p, "/")
	if p == "" || p == "." {
		p = "_"
	}
	return p
}
