package replay

import (
	"sort"

	"github.com/tayzer/compareengine/internal/analysis"
	"github.com/tayzer/compareengine/internal/pattern"
	"github.com/tayzer/compareengine/internal/pipeline"
)

// buildResult sorts the pair results by file name with a stable,
// byte-ordinal comparator (spec §5 ordering guarantee), runs the C5+C6
// cross-file aggregation, and assembles the top-level job output.
func buildResult(jobID string, results []pipeline.FilePairResult, execSummary map[string]int, failedExecutions []string) *pipeline.MultiFolderComparisonResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FileAName < results[j].FileAName
	})

	allEqual := true
	for _, r := range results {
		if r.Error != "" || !r.AreEqual {
			allEqual = false
			break
		}
	}

	report := analysis.Analyze(results, pattern.Options{CriticalNames: pattern.DefaultCriticalNames})

	metadata := map[string]any{
		"job_id":           jobID,
		"pattern_analysis": report,
	}
	if execSummary != nil {
		metadata["execution_outcome_summary"] = execSummary
	}
	if len(failedExecutions) > 0 {
		metadata["failed_executions"] = failedExecutions
	}

	return &pipeline.MultiFolderComparisonResult{
		TotalPairs:      len(results),
		AllEqual:        allEqual,
		FilePairResults: results,
		Metadata:        metadata,
	}
}
