package diffengine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeAny(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// scalarsEqual normalizes both sides the same way the categorizer (C3) will
// later classify them: numeric parse, then date parse, then boolean parse,
// then string comparison with optional case-folding and trailing-whitespace
// trimming. Using the same decision order on both sides of the boundary
// keeps "is it equal" and "what kind of change is it" consistent.
func scalarsEqual(a, b any, ignoreCase bool) bool {
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)

	if fa, erra := strconv.ParseFloat(sa, 64); erra == nil {
		if fb, errb := strconv.ParseFloat(sb, 64); errb == nil {
			return fa == fb
		}
	}

	if ta, ok := parseTimeAny(sa); ok {
		if tb, ok := parseTimeAny(sb); ok {
			return ta.UTC().Equal(tb.UTC())
		}
	}

	if ba, erra := strconv.ParseBool(sa); erra == nil {
		if bb, errb := strconv.ParseBool(sb); errb == nil {
			return ba == bb
		}
	}

	if ignoreCase {
		sa, sb = strings.ToLower(sa), strings.ToLower(sb)
	}
	sa = strings.TrimRight(sa, " \t\r\n")
	sb = strings.TrimRight(sb, " \t\r\n")
	return sa == sb
}
