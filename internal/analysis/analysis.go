// Package analysis composes the cross-file pattern aggregator (C5,
// internal/pattern) and the file classifier (C6, internal/classifier) into
// the single PatternAnalysis product a job exposes once every pair has
// completed (spec §3, "Aggregations are computed after all pairs complete;
// there is no streaming partial aggregation").
package analysis

import (
	"github.com/tayzer/compareengine/internal/classifier"
	"github.com/tayzer/compareengine/internal/pattern"
	"github.com/tayzer/compareengine/internal/pipeline"
)

// Analyze builds the full PatternAnalysis for a completed run. It must only
// be called after every pair in results has finished (no partial runs).
func Analyze(results []pipeline.FilePairResult, opts pattern.Options) pipeline.PatternAnalysis {
	patterns, filesWithDifferences := pattern.Aggregate(results, opts)
	fc := classifier.Classify(results)

	totalDifferences := 0
	criticalCount := 0
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		totalDifferences += len(r.Differences)
	}
	for _, p := range patterns {
		if p.IsCritical {
			criticalCount++
		}
	}

	return pipeline.PatternAnalysis{
		TotalFiles:           len(results),
		FilesWithDifferences: filesWithDifferences,
		TotalDifferences:     totalDifferences,
		CriticalCount:        criticalCount,
		AllPatterns:          patterns,
		FileClassification:   fc,
	}
}
