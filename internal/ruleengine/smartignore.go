package ruleengine

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/tayzer/compareengine/internal/pipeline"
)

// smartRules holds every compiled SmartIgnoreRule, grouped by kind so
// Match can test each group cheaply instead of scanning the raw slice.
type smartRules struct {
	propertyNames      map[string]*pipeline.SmartIgnoreRule // normalized name -> rule
	namePatterns       []namePattern
	propertyTypes      map[string]*pipeline.SmartIgnoreRule
	collectionOrdering map[string]*pipeline.SmartIgnoreRule

	// nullEmptyEquivalence resolves spec §9's open question: when enabled,
	// a missing element on one side and an empty collection on the other
	// are treated as equal rather than emitting a NullValueChange.
	nullEmptyEquivalence bool
}

type namePattern struct {
	glob string
	rule *pipeline.SmartIgnoreRule
}

func newSmartRules() *smartRules {
	return &smartRules{
		propertyNames:      make(map[string]*pipeline.SmartIgnoreRule),
		propertyTypes:      make(map[string]*pipeline.SmartIgnoreRule),
		collectionOrdering: make(map[string]*pipeline.SmartIgnoreRule),
	}
}

// add registers one enabled SmartIgnoreRule. Disabled rules and rules with
// unrecognized patterns are silently skipped, matching the teacher's
// doublestar.ValidatePattern discard-on-construction convention
// (internal/relevance/matcher.go).
func (s *smartRules) add(rule pipeline.SmartIgnoreRule, caseInsensitive bool) {
	if !rule.Enabled {
		return
	}
	r := rule

	switch rule.Kind {
	case pipeline.SmartIgnorePropertyName:
		s.propertyNames[normalizeName(rule.Value, caseInsensitive)] = &r
	case pipeline.SmartIgnoreNamePattern:
		if doublestar.ValidatePattern(rule.Value) {
			s.namePatterns = append(s.namePatterns, namePattern{glob: rule.Value, rule: &r})
		}
	case pipeline.SmartIgnorePropertyType:
		s.propertyTypes[normalizeName(rule.Value, caseInsensitive)] = &r
	case pipeline.SmartIgnoreCollectionOrder:
		s.collectionOrdering[normalizeName(rule.Value, caseInsensitive)] = &r
	case pipeline.SmartIgnoreNullEmptyEquality:
		s.nullEmptyEquivalence = true
	}
}

// match evaluates every smart-ignore group against a terminal segment name
// and its declared parent type, returning the first applicable hit. Order
// of evaluation is: exact property name, name glob, property type,
// collection ordering -- an arbitrary but stable precedence since the spec
// does not define one.
func (s *smartRules) match(name, parentType string, caseInsensitive bool) (ignore, ignoreOrder bool, hit *pipeline.SmartIgnoreRule) {
	normName := normalizeName(name, caseInsensitive)

	if r, ok := s.propertyNames[normName]; ok {
		return true, false, r
	}
	for _, p := range s.namePatterns {
		matched, err := doublestar.Match(p.glob, name)
		if err == nil && matched {
			return true, false, p.rule
		}
	}
	if r, ok := s.propertyTypes[normalizeName(parentType, caseInsensitive)]; ok {
		return true, false, r
	}
	if r, ok := s.collectionOrdering[normName]; ok {
		return false, true, r
	}
	return false, false, nil
}

