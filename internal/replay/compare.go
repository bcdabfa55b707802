package replay

import (
	"github.com/tayzer/compareengine/internal/category"
	"github.com/tayzer/compareengine/internal/diffengine"
	"github.com/tayzer/compareengine/internal/modelregistry"
	"github.com/tayzer/compareengine/internal/pipeline"
	"github.com/tayzer/compareengine/internal/rawdiff"
	"github.com/tayzer/compareengine/internal/ruleengine"
	"github.com/tayzer/compareengine/internal/summary"
)

// compareBytes runs the full structural comparison (C9 deserialize, C2
// walk, C3 categorize, C4 summarize) between two documents declared
// against the same model. If either side fails to deserialize, no
// differences are produced and the pair is reported as a parse error
// (spec §4.2).
func compareBytes(registry *modelregistry.Registry, rules *ruleengine.CompiledRules, modelName string, bodyA, bodyB []byte, contentTypeA, contentTypeB string) (pipeline.FilePairResult, error) {
	ignoreNS := rules.IgnoreXMLNamespaces()
	nodeA, err := registry.DeserializeXMLNamespaceAware(modelName, bodyA, contentTypeA, ignoreNS)
	if err != nil {
		return pipeline.FilePairResult{}, pipeline.NewPairError(pipeline.ErrorKindParse, "deserializing side A", err)
	}
	nodeB, err := registry.DeserializeXMLNamespaceAware(modelName, bodyB, contentTypeB, ignoreNS)
	if err != nil {
		return pipeline.FilePairResult{}, pipeline.NewPairError(pipeline.ErrorKindParse, "deserializing side B", err)
	}
	schema, err := registry.SchemaOf(modelName)
	if err != nil {
		return pipeline.FilePairResult{}, pipeline.NewPairError(pipeline.ErrorKindCompare, "resolving schema", err)
	}

	walker := diffengine.NewWalker(rules)
	diffs := category.ClassifyAll(walker.Compare(schema, modelName, nodeA, nodeB))

	return pipeline.FilePairResult{
		AreEqual:    len(diffs) == 0,
		Differences: diffs,
		Summary:     summary.Build(diffs),
	}, nil
}

// rawTextResult builds the raw-text fallback portion of a FilePairResult
// for a pair not eligible for structural compare (spec §4.8).
func rawTextResult(statusA, statusB int, bodyA, bodyB []byte) pipeline.FilePairResult {
	diffs := rawdiff.DiffWithStatusMismatch(statusA, statusB, bodyA, bodyB)
	return pipeline.FilePairResult{
		AreEqual:     len(diffs) == 0 && statusA == statusB,
		RawTextDiffs: diffs,
	}
}
