package diffengine

import (
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/tayzer/compareengine/internal/modelregistry"
	"github.com/tayzer/compareengine/internal/pipeline"
	"github.com/tayzer/compareengine/internal/ruleengine"
)

func (w *Walker) walkArray(path string, itemSchema *jsonschema.Schema, fieldName, parentType string, a, b *modelregistry.Node, match ruleengine.MatchResult, visited *visitedChain, out *[]pipeline.Difference) {
	aNull, bNull := a.IsNullOrMissing(), b.IsNullOrMissing()
	aEmpty, bEmpty := a.IsEmptyArray(), b.IsEmptyArray()

	switch {
	case aNull && bNull:
		return
	case (aNull && bEmpty) || (aEmpty && bNull):
		if !w.Rules.NullEmptyCollectionEquivalence() {
			*out = append(*out, pipeline.Difference{
				PropertyPath:  path,
				ExpectedValue: rawRepr(a),
				ActualValue:   rawRepr(b),
				ParentType:    parentType,
				KindHint:      pipeline.KindHintNullDiff,
			})
		}
		return
	case aNull != bNull:
		*out = append(*out, pipeline.Difference{
			PropertyPath:  path,
			ExpectedValue: rawRepr(a),
			ActualValue:   rawRepr(b),
			ParentType:    parentType,
			KindHint:      pipeline.KindHintNullDiff,
		})
		return
	}

	aItems, bItems := itemsOf(a), itemsOf(b)

	if match.IgnoreOrder {
		w.pairUnordered(path, itemSchema, fieldName, aItems, bItems, visited, out)
		return
	}
	w.pairOrdered(path, itemSchema, fieldName, aItems, bItems, visited, out)
}

func itemsOf(n *modelregistry.Node) []*modelregistry.Node {
	if n == nil || n.Kind != modelregistry.KindArray {
		return nil
	}
	return n.Items
}

// pairOrdered compares collection items positionally. An index present on
// only one side is treated the same as a one-sided-null object: its
// reachable leaves are reported as NULL_VALUE_CHANGE differences rather
// than a single ITEM_ADDED/REMOVED, since positional pairing carries no
// "this slot never existed" semantics the way wildcard pairing does.
func (w *Walker) pairOrdered(path string, itemSchema *jsonschema.Schema, fieldName string, a, b []*modelregistry.Node, visited *visitedChain, out *[]pipeline.Difference) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		match := w.Rules.Match(childPath, fieldName)
		if match.Ignore {
			continue
		}
		var ai, bi *modelregistry.Node
		if i < len(a) {
			ai = a[i]
		}
		if i < len(b) {
			bi = b[i]
		}
		w.walkValue(childPath, itemSchema, fieldName, fieldName, ai, bi, match, visited, out)
	}
}

// pairUnordered matches items by identity signature (spec §4.2 step 5),
// deterministically by signature then by index. Matched pairs recurse under
// the wildcard path "<field>[*]...", and unmatched items on either side are
// reported as ITEM_ADDED/ITEM_REMOVED at that same wildcard path, consistent
// with the categorizer's "path ends in [*] and exactly one side present"
// rule (spec §4.3).
func (w *Walker) pairUnordered(path string, itemSchema *jsonschema.Schema, fieldName string, a, b []*modelregistry.Node, visited *visitedChain, out *[]pipeline.Difference) {
	wildcardPath := path + "[*]"
	match := w.Rules.Match(wildcardPath, fieldName)
	if match.Ignore {
		return
	}

	aBySig := groupBySignature(a)
	bBySig := groupBySignature(b)

	sigs := make(map[string]bool, len(aBySig)+len(bBySig))
	for sig := range aBySig {
		sigs[sig] = true
	}
	for sig := range bBySig {
		sigs[sig] = true
	}
	ordered := make([]string, 0, len(sigs))
	for sig := range sigs {
		ordered = append(ordered, sig)
	}
	sort.Strings(ordered)

	for _, sig := range ordered {
		aList := aBySig[sig]
		bList := bBySig[sig]
		paired := len(aList)
		if len(bList) < paired {
			paired = len(bList)
		}
		for i := 0; i < paired; i++ {
			w.walkValue(wildcardPath, itemSchema, fieldName, fieldName, aList[i], bList[i], match, visited, out)
		}
		for i := paired; i < len(aList); i++ {
			*out = append(*out, pipeline.Difference{
				PropertyPath:  wildcardPath,
				ExpectedValue: rawRepr(aList[i]),
				ActualValue:   nil,
				ParentType:    fieldName,
			})
		}
		for i := paired; i < len(bList); i++ {
			*out = append(*out, pipeline.Difference{
				PropertyPath:  wildcardPath,
				ExpectedValue: nil,
				ActualValue:   rawRepr(bList[i]),
				ParentType:    fieldName,
			})
		}
	}
}

func groupBySignature(items []*modelregistry.Node) map[string][]*modelregistry.Node {
	groups := map[string][]*modelregistry.Node{}
	for _, item := range items {
		sig := itemSignature(item)
		groups[sig] = append(groups[sig], item)
	}
	return groups
}

// emitOneSidedDescendants enumerates the schema-declared descendants of a
// value that exists on only one side of the pair (spec §4.2 step 4). It
// descends at most maxDepth levels to keep output finite on deep schemas.
func (w *Walker) emitOneSidedDescendants(path string, schema *jsonschema.Schema, present *modelregistry.Node, presentIsA bool, parentType string, maxDepth int, out *[]pipeline.Difference) {
	if schema == nil || schema.Properties == nil || maxDepth <= 0 {
		w.emitMissingWhole(path, present, presentIsA, parentType, out)
		return
	}

	emittedAny := false
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		childPath := joinPath(path, name)
		if w.Rules.Match(childPath, parentType).Ignore {
			continue
		}
		propSchema := schema.Properties[name]
		child := present.Field(name)

		switch {
		case propSchema != nil && propSchema.Type == "object":
			w.emitOneSidedDescendants(childPath, propSchema, child, presentIsA, name, maxDepth-1, out)
			emittedAny = true
		case propSchema != nil && propSchema.Type == "array":
			items := itemsOf(child)
			if len(items) == 0 {
				continue
			}
			wildcardPath := childPath + "[*]"
			for _, item := range items {
				expected, actual := rawRepr(item), any(nil)
				if !presentIsA {
					expected, actual = nil, rawRepr(item)
				}
				*out = append(*out, pipeline.Difference{
					PropertyPath:  wildcardPath,
					ExpectedValue: expected,
					ActualValue:   actual,
					ParentType:    name,
				})
			}
			emittedAny = true
		default:
			w.emitMissingWhole(childPath, child, presentIsA, parentType, out)
			emittedAny = true
		}
	}

	if !emittedAny {
		w.emitMissingWhole(path, present, presentIsA, parentType, out)
	}
}

func (w *Walker) emitMissingWhole(path string, present *modelregistry.Node, presentIsA bool, parentType string, out *[]pipeline.Difference) {
	if present.IsNullOrMissing() {
		return
	}
	val := rawRepr(present)
	var expected, actual any
	if presentIsA {
		expected = val
	} else {
		actual = val
	}
	*out = append(*out, pipeline.Difference{
		PropertyPath:  path,
		ExpectedValue: expected,
		ActualValue:   actual,
		ParentType:    parentType,
		KindHint:      pipeline.KindHintNullDiff,
	})
}
