package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tayzer/compareengine/internal/pattern"
	"github.com/tayzer/compareengine/internal/pipeline"
)

func TestAnalyze_EmptyCorpus(t *testing.T) {
	t.Parallel()
	a := Analyze(nil, pattern.Options{})
	assert.Equal(t, 0, a.TotalFiles)
	assert.Equal(t, 0, a.FilesWithDifferences)
	assert.True(t, a.FileClassification.IsComplete)
}

func TestAnalyze_CountsDifferencesAndCriticalPatterns(t *testing.T) {
	t.Parallel()
	results := []pipeline.FilePairResult{
		{FileAName: "a.json", Differences: []pipeline.Difference{
			{PropertyPath: "Order.Id", Category: pipeline.CategoryValueChanged},
		}},
		{FileAName: "b.json", Differences: []pipeline.Difference{
			{PropertyPath: "Order.Id", Category: pipeline.CategoryValueChanged},
			{PropertyPath: "Order.Note", Category: pipeline.CategoryValueChanged},
		}},
	}
	a := Analyze(results, pattern.Options{})
	assert.Equal(t, 2, a.TotalFiles)
	assert.Equal(t, 2, a.FilesWithDifferences)
	assert.Equal(t, 3, a.TotalDifferences)
	assert.GreaterOrEqual(t, a.CriticalCount, 1)
}
