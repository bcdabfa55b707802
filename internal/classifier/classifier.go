// Package classifier implements the file classifier (C6): it partitions
// files with differences into the five-way Category5 coverage buckets and
// enforces invariant I1 (every such file belongs to exactly one bucket).
package classifier

import (
	"github.com/tayzer/compareengine/internal/pipeline"
)

type group int

const (
	groupValue group = iota
	groupMissing
	groupOrder
	groupUncategorized
)

func groupOf(c pipeline.Category) group {
	switch c {
	case pipeline.CategoryNumericValueChanged, pipeline.CategoryDateTimeChanged,
		pipeline.CategoryBooleanValueChanged, pipeline.CategoryTextContentChanged,
		pipeline.CategoryValueChanged, pipeline.CategoryGeneralValueChanged:
		return groupValue
	case pipeline.CategoryNullValueChange, pipeline.CategoryItemRemoved:
		return groupMissing
	case pipeline.CategoryCollectionItemChange, pipeline.CategoryItemAdded:
		return groupOrder
	default:
		return groupUncategorized
	}
}

// Classify partitions every file with at least one (non-error) difference
// into exactly one Category5 bucket (spec §4.6). It panics with a
// pipeline.InvariantViolation if a file would land in more than one bucket
// or in none -- per spec §7.6 this is a fatal bug, not a recoverable
// per-pair outcome, so the caller is expected to let it crash the job.
func Classify(results []pipeline.FilePairResult) pipeline.FileClassification {
	fc := pipeline.FileClassification{
		FilesByCategory: map[pipeline.Category5][]string{
			pipeline.Category5Value:         {},
			pipeline.Category5Missing:       {},
			pipeline.Category5Order:         {},
			pipeline.Category5Mixed:         {},
			pipeline.Category5Uncategorized: {},
		},
		Counts: map[pipeline.Category5]int{},
	}

	seen := map[string]bool{}

	for _, r := range results {
		if r.Error != "" || len(r.Differences) == 0 {
			continue
		}

		fileName := r.FileAName
		if fileName == "" {
			fileName = r.FileBName
		}

		groups := map[group]bool{}
		for _, d := range r.Differences {
			groups[groupOf(d.Category)] = true
		}

		bucket := bucketFor(groups)
		fc.FilesByCategory[bucket] = append(fc.FilesByCategory[bucket], fileName)
		fc.Counts[bucket]++

		if seen[fileName] {
			panic(pipeline.NewInvariantViolation("I1", "file "+fileName+" classified more than once"))
		}
		seen[fileName] = true
	}

	total := 0
	for _, files := range fc.FilesByCategory {
		total += len(files)
	}
	fc.IsComplete = total == len(seen)

	assertI1(fc)

	return fc
}

func bucketFor(groups map[group]bool) pipeline.Category5 {
	if len(groups) == 0 {
		return pipeline.Category5Uncategorized
	}
	if len(groups) > 1 {
		return pipeline.Category5Mixed
	}
	for g := range groups {
		switch g {
		case groupValue:
			return pipeline.Category5Value
		case groupMissing:
			return pipeline.Category5Missing
		case groupOrder:
			return pipeline.Category5Order
		default:
			return pipeline.Category5Uncategorized
		}
	}
	return pipeline.Category5Uncategorized
}

// assertI1 re-verifies, after classification, that no file name appears in
// more than one bucket -- the same invariant enforced incrementally above,
// checked again as a defense-in-depth assertion per spec §4.6.
func assertI1(fc pipeline.FileClassification) {
	seen := map[string]pipeline.Category5{}
	for cat, files := range fc.FilesByCategory {
		for _, f := range files {
			if prior, ok := seen[f]; ok && prior != cat {
				panic(pipeline.NewInvariantViolation("I1", "file "+f+" present in both "+string(prior)+" and "+string(cat)))
			}
			seen[f] = cat
		}
	}
}
