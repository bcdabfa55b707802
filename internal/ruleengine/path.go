// Package ruleengine compiles a RulesDocument (spec §3, §6) into an
// immutable, read-only CompiledRules value that the structural diff (C2)
// consults at every field it visits. The compiled form is safe for
// concurrent reads across every pair in a job (spec §5).
package ruleengine

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexKind classifies the bracket qualifier on a PropertyPath segment.
type IndexKind int

const (
	// IndexNone means the segment carries no bracket at all (a plain scalar
	// or object property).
	IndexNone IndexKind = iota
	// IndexAny is the "[*]" qualifier: matches any concrete index.
	IndexAny
	// IndexSpecific is the "[n]" qualifier: matches only that index.
	IndexSpecific
	// IndexOrder is the "[Order]" qualifier: matches any index, and flags
	// the collection it qualifies as order-insensitive.
	IndexOrder
)

// Segment is one dotted component of a PropertyPath, e.g. "Results[*]" or
// "Id".
type Segment struct {
	Name    string
	Index   IndexKind
	Literal int // valid only when Index == IndexSpecific
}

// String renders the segment back into PropertyPath syntax.
func (s Segment) String() string {
	switch s.Index {
	case IndexAny:
		return s.Name + "[*]"
	case IndexSpecific:
		return fmt.Sprintf("%s[%d]", s.Name, s.Literal)
	case IndexOrder:
		return s.Name + "[Order]"
	default:
		return s.Name
	}
}

// ParsePath splits a dotted PropertyPath into its Segments. Each segment is
// a property name optionally followed by one bracket qualifier: "[*]",
// "[n]", or "[Order]". Malformed bracket syntax is a compile-time error
// (spec §4.1 "invalid rule path... fails fast at compile time").
func ParsePath(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("ruleengine: empty property path")
	}

	raw := strings.Split(path, ".")
	segments := make([]Segment, 0, len(raw))

	for _, part := range raw {
		if part == "" {
			return nil, fmt.Errorf("ruleengine: empty path segment in %q", path)
		}

		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("ruleengine: %q: %w", path, err)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

func parseSegment(part string) (Segment, error) {
	open := strings.IndexByte(part, '[')
	if open == -1 {
		if strings.ContainsRune(part, ']') {
			return Segment{}, fmt.Errorf("unbalanced bracket in segment %q", part)
		}
		return Segment{Name: part, Index: IndexNone}, nil
	}

	if !strings.HasSuffix(part, "]") {
		return Segment{}, fmt.Errorf("unbalanced bracket in segment %q", part)
	}

	name := part[:open]
	inner := part[open+1 : len(part)-1]
	if name == "" {
		return Segment{}, fmt.Errorf("missing property name in segment %q", part)
	}
	if strings.ContainsAny(inner, "[]") {
		return Segment{}, fmt.Errorf("nested brackets in segment %q", part)
	}

	switch inner {
	case "*":
		return Segment{Name: name, Index: IndexAny}, nil
	case "Order":
		return Segment{Name: name, Index: IndexOrder}, nil
	default:
		n, err := strconv.Atoi(inner)
		if err != nil || n < 0 {
			return Segment{}, fmt.Errorf("invalid index %q in segment %q", inner, part)
		}
		return Segment{Name: name, Index: IndexSpecific, Literal: n}, nil
	}
}

// Normalize collapses every index-bearing segment in path to "[*]", the
// canonical form rules and patterns are stored and compared in. C5 builds
// its pattern keys in the same form with internal/pattern's own normalizer,
// not with this function.
func Normalize(path string) string {
	segments, err := ParsePath(path)
	if err != nil {
		// Runtime paths come from the walker itself, so a parse failure here
		// means a caller built a path by hand incorrectly; fall back to the
		// raw string rather than panic.
		return path
	}
	return JoinNormalized(segments)
}

// JoinNormalized renders segments back into a dotted path with every index
// qualifier collapsed to "[*]".
func JoinNormalized(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		if s.Index == IndexNone {
			parts[i] = s.Name
		} else {
			parts[i] = s.Name + "[*]"
		}
	}
	return strings.Join(parts, ".")
}

// Join renders segments back into a literal dotted path, preserving
// concrete indices.
func Join(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}
