// Package category implements the difference categorizer (C3): it assigns
// exactly one pipeline.Category to each pipeline.Difference using the fixed
// first-match decision order from spec §4.3.
package category

import (
	"strconv"
	"strings"
	"time"

	"github.com/tayzer/compareengine/internal/pipeline"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Classify returns the Category for one Difference. It never mutates d.
func Classify(d pipeline.Difference) pipeline.Category {
	if d.KindHint == pipeline.KindHintNullDiff {
		return pipeline.CategoryNullValueChange
	}

	if strings.HasSuffix(d.PropertyPath, "[*]") && exactlyOneSidePresent(d) {
		if d.ActualValue != nil && d.ExpectedValue == nil {
			return pipeline.CategoryItemAdded
		}
		return pipeline.CategoryItemRemoved
	}

	if bothNumeric(d.ExpectedValue, d.ActualValue) {
		return pipeline.CategoryNumericValueChanged
	}

	if bothDateTime(d.ExpectedValue, d.ActualValue) {
		return pipeline.CategoryDateTimeChanged
	}

	if bothBoolean(d.ExpectedValue, d.ActualValue) {
		return pipeline.CategoryBooleanValueChanged
	}

	if isInsideCollectionItem(d.PropertyPath) {
		return pipeline.CategoryCollectionItemChange
	}

	if differOnlyInTrailingText(d.ExpectedValue, d.ActualValue) {
		return pipeline.CategoryTextContentChanged
	}

	return pipeline.CategoryValueChanged
}

// ClassifyAll assigns a Category to every Difference in place, returning the
// same slice for convenience.
func ClassifyAll(diffs []pipeline.Difference) []pipeline.Difference {
	for i := range diffs {
		diffs[i].Category = Classify(diffs[i])
	}
	return diffs
}

func exactlyOneSidePresent(d pipeline.Difference) bool {
	return (d.ExpectedValue == nil) != (d.ActualValue == nil)
}

func bothNumeric(a, b any) bool {
	_, ok1 := asFloat(a)
	_, ok2 := asFloat(b)
	return ok1 && ok2
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func bothDateTime(a, b any) bool {
	_, ok1 := asTime(a)
	_, ok2 := asTime(b)
	return ok1 && ok2
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func bothBoolean(a, b any) bool {
	_, ok1 := asBool(a)
	_, ok2 := asBool(b)
	return ok1 && ok2
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	default:
		return false, false
	}
}

// isInsideCollectionItem reports whether the path contains a concrete or
// wildcard collection index anywhere before its final segment, i.e. the
// difference is a field *within* a matched collection element rather than
// the element's own presence (which path ending in "[*]" signals instead).
func isInsideCollectionItem(path string) bool {
	if strings.HasSuffix(path, "[*]") {
		return false
	}
	idx := strings.LastIndex(path, "]")
	return idx >= 0 && idx < len(path)-1
}

// differOnlyInTrailingText reports whether both values are short strings
// (<=32 chars) where one is a prefix of the other -- they share the same
// leading text and diverge only at the tail.
func differOnlyInTrailingText(a, b any) bool {
	sa, ok1 := a.(string)
	sb, ok2 := b.(string)
	if !ok1 || !ok2 || sa == sb {
		return false
	}
	if len(sa) > 32 || len(sb) > 32 {
		return false
	}
	shorter, longer := sa, sb
	if len(sb) < len(sa) {
		shorter, longer = sb, sa
	}
	return strings.HasPrefix(longer, shorter) && shorter != ""
}
