// Package summary implements the per-pair summarizer (C4): it turns a flat
// list of categorized differences into a pipeline.DifferenceSummary.
package summary

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tayzer/compareengine/internal/pipeline"
)

var indexSegment = regexp.MustCompile(`\[[^\]]*\]`)

// normalizePattern collapses every bracketed index (concrete or wildcard)
// to "[*]", the same normalization the cross-file aggregator (C5) performs,
// so that per-pair pattern detection and cross-file pattern keys agree.
func normalizePattern(path string) string {
	return indexSegment.ReplaceAllString(path, "[*]")
}

// Build assembles a DifferenceSummary from a pair's already-categorized
// differences (spec §4.4).
func Build(diffs []pipeline.Difference) pipeline.DifferenceSummary {
	s := pipeline.DifferenceSummary{
		AreEqual:   len(diffs) == 0,
		TotalCount: len(diffs),
		ByCategory: map[pipeline.Category][]pipeline.Difference{},
		ByRootObject: map[string][]pipeline.Difference{},
	}

	patternGroups := map[string][]pipeline.Difference{}
	patternOrder := make([]string, 0)

	for _, d := range diffs {
		s.ByCategory[d.Category] = append(s.ByCategory[d.Category], d)

		root := rootObject(d.PropertyPath)
		s.ByRootObject[root] = append(s.ByRootObject[root], d)

		pattern := normalizePattern(d.PropertyPath)
		if _, seen := patternGroups[pattern]; !seen {
			patternOrder = append(patternOrder, pattern)
		}
		patternGroups[pattern] = append(patternGroups[pattern], d)
	}

	for _, pattern := range patternOrder {
		group := patternGroups[pattern]
		if len(group) < 2 {
			continue
		}
		examples := group
		if len(examples) > 3 {
			examples = examples[:3]
		}
		s.CommonPatterns = append(s.CommonPatterns, pipeline.PatternExemplar{
			Pattern:  pattern,
			Count:    len(group),
			Examples: examples,
		})
	}

	sort.Slice(s.CommonPatterns, func(i, j int) bool {
		return s.CommonPatterns[i].Pattern < s.CommonPatterns[j].Pattern
	})

	return s
}

// rootObject extracts the longest property-path prefix ending at a named
// object type, i.e. the path up to (but not including) the first collection
// index; for a path that never enters a collection, the path without its
// last segment (or the whole path when it has only one segment).
func rootObject(path string) string {
	if idx := strings.Index(path, "["); idx >= 0 {
		trimmed := strings.TrimRight(path[:idx], ".")
		if trimmed == "" {
			return path
		}
		return trimmed
	}
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[:idx]
	}
	return path
}
