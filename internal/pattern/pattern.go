// Package pattern implements the cross-file pattern aggregator (C5): it
// folds many FilePairResults into a ranked list of StructuralPatterns.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tayzer/compareengine/internal/pipeline"
)

var indexSegment = regexp.MustCompile(`\[[^\]]*\]`)

func normalize(path string) string {
	return indexSegment.ReplaceAllString(path, "[*]")
}

// DefaultCriticalNames is the built-in critical-property list (spec §4.5
// step 4b): terminal property names that flag business impact regardless
// of how widespread the pattern is.
var DefaultCriticalNames = map[string]bool{
	"Id":     true,
	"Status": true,
	"Code":   true,
	"Amount": true,
}

type accumulator struct {
	affectedFiles map[string]bool
	occurrences   int
	examples      []pipeline.Difference
	groupCounts   map[categoryGroup]int
	categoryCounts map[pipeline.Category]int
	isCollectionElement bool
	collectionName string
	missingProperty string
}

type categoryGroup int

const (
	groupValue categoryGroup = iota
	groupMissing
	groupOrder
	groupUncategorized
)

func groupOf(c pipeline.Category) categoryGroup {
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

// Options configures pattern criticality rules beyond the built-in
// consistency threshold.
type Options struct {
	// CriticalNames overrides DefaultCriticalNames when non-nil.
	CriticalNames map[string]bool
	// RequiredCollections names collections (by their declared field name)
	// whose missing elements are always critical (spec §4.5 step 4c). Left
	// nil when the caller's schema does not track required-ness.
	RequiredCollections map[string]bool
}

// Aggregate builds the ranked StructuralPattern list from every non-error
// pair's differences. filesWithDifferences is also returned; internal/analysis
// reports it as PatternAnalysis.FilesWithDifferences.
func Aggregate(results []pipeline.FilePairResult, opts Options) (patterns []pipeline.StructuralPattern, filesWithDifferences int) {
	critical := opts.CriticalNames
	if critical == nil {
		critical = DefaultCriticalNames
	}

	acc := map[string]*accumulator{}
	order := make([]string, 0)

	for _, r := range results {
		if r.Error != "" {
			continue
		}
		if len(r.Differences) == 0 {
			continue
		}
		filesWithDifferences++

		fileName := r.FileAName
		if fileName == "" {
			fileName = r.FileBName
		}

		for _, d := range r.Differences {
			key := normalize(d.PropertyPath)
			a, ok := acc[key]
			if !ok {
				a = &accumulator{
					affectedFiles:  map[string]bool{},
					groupCounts:    map[categoryGroup]int{},
					categoryCounts: map[pipeline.Category]int{},
				}
				acc[key] = a
				order = append(order, key)
			}
			a.affectedFiles[fileName] = true
			a.occurrences++
			if len(a.examples) < 3 {
				a.examples = append(a.examples, d)
			}
			a.groupCounts[groupOf(d.Category)]++
			a.categoryCounts[d.Category]++

			if idx := strings.Index(key, "["); idx >= 0 {
				a.isCollectionElement = true
				a.collectionName = strings.TrimRight(key[:idx], ".")
			}
			if dot := strings.LastIndex(key, "."); dot >= 0 && a.missingProperty == "" {
				a.missingProperty = key[dot+1:]
			} else if a.missingProperty == "" {
				a.missingProperty = key
			}
		}
	}

	for _, key := range order {
		a := acc[key]
		fileCount := len(a.affectedFiles)

		var consistency float64
		if filesWithDifferences > 0 {
			consistency = float64(fileCount) / float64(filesWithDifferences) * 100
		}
		if consistency > 100 {
			consistency = 100
		}
		if consistency < 0 {
			consistency = 0
		}

		terminalName := a.missingProperty
		category := majorityCategory(a)

		isCritical := consistency >= 80 || critical[terminalName]
		if category == pipeline.CategoryItemRemoved && opts.RequiredCollections != nil && opts.RequiredCollections[a.collectionName] {
			isCritical = true
		}

		affected := make([]string, 0, len(a.affectedFiles))
		for f := range a.affectedFiles {
			affected = append(affected, f)
		}
		sort.Strings(affected)

		p := pipeline.StructuralPattern{
			FullPattern:         key,
			ParentPath:          parentPath(key),
			Category:            category,
			IsCollectionElement: a.isCollectionElement,
			FileCount:           fileCount,
			OccurrenceCount:     a.occurrences,
			Consistency:         consistency,
			IsCritical:          isCritical,
			AffectedFiles:       affected,
			Examples:            a.examples,
			HumanReadableDescription: describe(key, category, fileCount),
			RecommendedAction:   recommend(category),
		}
		if a.isCollectionElement {
			p.CollectionName = a.collectionName
		}
		if category == pipeline.CategoryNullValueChange || category == pipeline.CategoryItemRemoved {
			p.MissingProperty = a.missingProperty
		}
		patterns = append(patterns, p)
	}

	sort.Slice(patterns, func(i, j int) bool {
		pi, pj := patterns[i], patterns[j]
		if pi.IsCritical != pj.IsCritical {
			return pi.IsCritical
		}
		if pi.OccurrenceCount != pj.OccurrenceCount {
			return pi.OccurrenceCount > pj.OccurrenceCount
		}
		if pi.FileCount != pj.FileCount {
			return pi.FileCount > pj.FileCount
		}
		return pi.FullPattern < pj.FullPattern
	})

	return patterns, filesWithDifferences
}

// majorityCategory picks the winning categoryGroup (ties broken toward
// MISSING > VALUE > ORDER), then the most common specific Category within
// that group (spec §4.5 step 5).
func majorityCategory(a *accumulator) pipeline.Category {
	groupPriority := []categoryGroup{groupMissing, groupValue, groupOrder, groupUncategorized}

	best := groupUncategorized
	bestCount := -1
	for _, g := range groupPriority {
		if c := a.groupCounts[g]; c > bestCount {
			bestCount = c
			best = g
		}
	}

	var bestCat pipeline.Category
	bestCatCount := -1
	for cat, count := range a.categoryCounts {
		if groupOf(cat) != best {
			continue
		}
		if count > bestCatCount || (count == bestCatCount && cat < bestCat) {
			bestCatCount = count
			bestCat = cat
		}
	}
	if bestCat == "" {
		return pipeline.CategoryUncategorized
	}
	return bestCat
}

func parentPath(pattern string) string {
	if idx := strings.Index(pattern, "["); idx >= 0 {
		return strings.TrimRight(pattern[:idx], ".")
	}
	if idx := strings.LastIndex(pattern, "."); idx >= 0 {
		return pattern[:idx]
	}
	return pattern
}

func describe(pattern string, category pipeline.Category, fileCount int) string {
	return fmt.Sprintf("%s differs (%s) across %d file(s)", pattern, category, fileCount)
}

func recommend(category pipeline.Category) string {
	switch category {
	case pipeline.CategoryNullValueChange:
		return "Confirm whether this field should be consistently present."
	case pipeline.CategoryItemRemoved, pipeline.CategoryItemAdded:
		return "Review whether the collection's membership change is intentional."
	default:
		return "Review the affected files for an unintended value change."
	}
}
