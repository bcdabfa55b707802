package ruleengine

import (
	"fmt"

	"github.com/tayzer/compareengine/internal/pipeline"
)

// CompiledRules is the immutable result of compiling a RulesDocument. It is
// safe for concurrent reads by every pair in a job (spec §5 "the rule
// engine's compiled trie is read-only during a job").
type CompiledRules struct {
	root            *trieNode
	smart           *smartRules
	caseInsensitive bool

	// globalIgnoreOrder applies order-insensitivity to every collection; it
	// is ORed into every non-ignored Match result, so no rule can turn it
	// off for a single collection.
	globalIgnoreOrder bool

	// globalIgnoreXMLNamespaces is consumed by the model registry (C9),
	// not by Match itself, but travels with the compiled rules since it
	// is part of the same per-run configuration.
	globalIgnoreXMLNamespaces bool
}

// MatchResult is C1's answer for one concrete runtime path.
type MatchResult struct {
	// Ignore reports whether the path (or an ancestor prefix of it) is
	// configured to be skipped entirely, subtree included.
	Ignore bool

	// IgnoreOrder reports whether the collection at this exact path should
	// be compared order-insensitively.
	IgnoreOrder bool

	// SmartHit is set when a SmartIgnoreRule, rather than a literal Rule,
	// produced the Ignore/IgnoreOrder verdict.
	SmartHit *pipeline.SmartIgnoreRule
}

// Compile validates and compiles a RulesDocument into a CompiledRules
// value. Compilation fails fast on any rule with invalid bracket syntax
// (spec §4.1), matching the "Input-shape errors... surface immediately"
// taxonomy in spec §7.1.
func Compile(doc pipeline.RulesDocument) (*CompiledRules, error) {
	c := &CompiledRules{
		root:                      newTrieNode(),
		smart:                     newSmartRules(),
		caseInsensitive:           doc.IgnoreStringCase,
		globalIgnoreOrder:         doc.IgnoreCollectionOrder,
		globalIgnoreXMLNamespaces: doc.IgnoreXMLNamespaces,
	}

	for _, rule := range doc.Rules {
		segments, err := ParsePath(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("ruleengine: compile rule %q: %w", rule.Path, err)
		}
		if !rule.IgnoreCompletely && !rule.IgnoreOrder {
			return nil, fmt.Errorf("ruleengine: rule %q sets neither ignore_completely nor ignore_order", rule.Path)
		}
		c.root.insert(segments, c.caseInsensitive, rule.IgnoreCompletely, rule.IgnoreOrder)
	}

	for _, sr := range doc.SmartRules {
		if sr.Enabled && sr.Value == "" && sr.Kind != pipeline.SmartIgnoreNullEmptyEquality {
			return nil, fmt.Errorf("ruleengine: smart rule %s requires a non-empty value", sr.Kind)
		}
		c.smart.add(sr, c.caseInsensitive)
	}

	return c, nil
}

// Recompile rebuilds a CompiledRules from the same RulesDocument. Spec §8
// requires this to be idempotent: recompiling the same document must
// produce identical match behavior. Because Compile has no external state
// (no filesystem reads, no randomness), simply calling Compile again
// satisfies the property; Recompile exists as a named entry point so
// callers express intent clearly.
func Recompile(doc pipeline.RulesDocument) (*CompiledRules, error) {
	return Compile(doc)
}

// NullEmptyCollectionEquivalence reports whether a missing collection on
// one side and an empty collection on the other should compare equal
// (spec §9 open question, resolved via the NullEmptyCollectionEquivalence
// SmartIgnoreRule kind).
func (c *CompiledRules) NullEmptyCollectionEquivalence() bool {
	return c.smart.nullEmptyEquivalence
}

// IgnoreXMLNamespaces reports the per-run configuration toggle consumed by
// the model registry's XML deserialization (C9).
func (c *CompiledRules) IgnoreXMLNamespaces() bool {
	return c.globalIgnoreXMLNamespaces
}

// CaseInsensitive reports whether property-name comparisons ignore case.
func (c *CompiledRules) CaseInsensitive() bool {
	return c.caseInsensitive
}
