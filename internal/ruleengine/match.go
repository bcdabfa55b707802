package ruleengine

// Match decides, for one concrete runtime property path, whether it must
// be skipped entirely, whether its subtree is order-insensitive, and
// whether a SmartIgnoreRule applies (spec §4.1). parentType is the
// declared type name of the immediate parent object, used by
// PROPERTY_TYPE smart rules; pass "" when unknown or not applicable.
//
// path is expected to use concrete indices (e.g. "Results[2].Id"), as
// produced by the structural walk (C2). Malformed paths never match
// anything; the walker only ever builds paths from valid schema
// traversal, so this is not a user-facing error path.
func (c *CompiledRules) Match(path string, parentType string) MatchResult {
	segments, err := ParsePath(path)
	if err != nil {
		return MatchResult{}
	}

	ignore, ignoreOrder := c.root.lookup(segments, c.caseInsensitive)
	if ignore {
		return MatchResult{Ignore: true}
	}

	last := segments[len(segments)-1]
	smartIgnore, smartOrder, hit := c.smart.match(last.Name, parentType, c.caseInsensitive)
	if smartIgnore {
		return MatchResult{Ignore: true, SmartHit: hit}
	}

	result := MatchResult{
		IgnoreOrder: ignoreOrder || smartOrder || c.globalIgnoreOrder,
	}
	if smartOrder {
		result.SmartHit = hit
	}
	return result
}
