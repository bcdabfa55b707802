package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayzer/compareengine/internal/pipeline"
	"github.com/tayzer/compareengine/internal/testutil"
)

func TestBuild_EmptyIsEqual(t *testing.T) {
	t.Parallel()
	s := Build(nil)
	assert.True(t, s.AreEqual)
	assert.Equal(t, 0, s.TotalCount)
}

func TestBuild_GroupsByCategory(t *testing.T) {
	t.Parallel()
	diffs := []pipeline.Difference{
		{PropertyPath: "Metadata.Region", Category: pipeline.CategoryValueChanged},
		{PropertyPath: "Results[*].Score", Category: pipeline.CategoryNumericValueChanged},
	}
	s := Build(diffs)
	assert.False(t, s.AreEqual)
	assert.Equal(t, 2, s.TotalCount)
	assert.Len(t, s.ByCategory[pipeline.CategoryValueChanged], 1)
	assert.Len(t, s.ByCategory[pipeline.CategoryNumericValueChanged], 1)
}

func TestBuild_GroupsByRootObject(t *testing.T) {
	t.Parallel()
	diffs := []pipeline.Difference{
		{PropertyPath: "Metadata.Region"},
		{PropertyPath: "Metadata.Timestamp"},
		{PropertyPath: "Results[0].Score"},
	}
	s := Build(diffs)
	assert.Len(t, s.ByRootObject["Metadata"], 2)
	assert.Len(t, s.ByRootObject["Results"], 1)
}

func TestBuild_MergesSamePairPatternsIntoExemplar(t *testing.T) {
	t.Parallel()
	diffs := []pipeline.Difference{
		{PropertyPath: "Results[0].Score"},
		{PropertyPath: "Results[1].Score"},
		{PropertyPath: "Results[2].Score"},
		{PropertyPath: "Results[3].Score"},
	}
	s := Build(diffs)
	require.Len(t, s.CommonPatterns, 1)
	assert.Equal(t, "Results[*].Score", s.CommonPatterns[0].Pattern)
	assert.Equal(t, 4, s.CommonPatterns[0].Count)
	assert.Len(t, s.CommonPatterns[0].Examples, 3)
}

func TestBuild_SingleOccurrencePatternIsNotAnExemplar(t *testing.T) {
	t.Parallel()
	diffs := []pipeline.Difference{
		{PropertyPath: "Metadata.Region"},
	}
	s := Build(diffs)
	assert.Empty(t, s.CommonPatterns)
}

func TestBuild_GoldenShape(t *testing.T) {
	diffs := []pipeline.Difference{
		{PropertyPath: "Order.Items[0].Amount", ExpectedValue: "10", ActualValue: "20", ParentType: "Item", Category: pipeline.CategoryValueChanged},
		{PropertyPath: "Order.Items[1].Amount", ExpectedValue: "30", ActualValue: "40", ParentType: "Item", Category: pipeline.CategoryValueChanged},
	}
	testutil.GoldenJSON(t, "pair_summary", Build(diffs))
}
