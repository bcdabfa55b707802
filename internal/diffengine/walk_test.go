package diffengine

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayzer/compareengine/internal/modelregistry"
	"github.com/tayzer/compareengine/internal/pipeline"
	"github.com/tayzer/compareengine/internal/ruleengine"
)

func orderSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"Metadata": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"Timestamp": {Type: "string"},
					"Region":    {Type: "string"},
				},
			},
			"Results": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"Id":    {Type: "integer"},
						"Score": {Type: "number"},
					},
				},
			},
		},
	}
}

func decode(t *testing.T, doc string) *modelregistry.Node {
	t.Helper()
	reg := modelregistry.NewRegistry()
	reg.Register(modelregistry.ModelDefinition{Name: "Order", Schema: orderSchema()})
	node, err := reg.Deserialize("Order", []byte(doc), "application/json")
	require.NoError(t, err)
	return node
}

func compile(t *testing.T, doc pipeline.RulesDocument) *ruleengine.CompiledRules {
	t.Helper()
	c, err := ruleengine.Compile(doc)
	require.NoError(t, err)
	return c
}

func TestCompare_IdenticalDocumentsAreEqual(t *testing.T) {
	t.Parallel()

	doc := `{"Metadata":{"Timestamp":"2024-01-01T00:00:00Z","Region":"us"},"Results":[{"Id":1,"Score":1.0},{"Id":2,"Score":2.0}]}`
	a := decode(t, doc)
	b := decode(t, doc)

	rules := compile(t, pipeline.RulesDocument{})
	diffs := NewWalker(rules).Compare(orderSchema(), "Order", a, b)
	assert.Empty(t, diffs)
}

func TestCompare_OrderInsensitiveIdentityPairing(t *testing.T) {
	t.Parallel()

	a := decode(t, `{"Results":[{"Id":1,"Score":1.0},{"Id":2,"Score":2.0}]}`)
	b := decode(t, `{"Results":[{"Id":2,"Score":2.0},{"Id":1,"Score":1.5}]}`)

	rules := compile(t, pipeline.RulesDocument{IgnoreCollectionOrder: true})
	diffs := NewWalker(rules).Compare(orderSchema(), "Order", a, b)

	require.Len(t, diffs, 1)
	assert.Equal(t, "Results[*].Score", diffs[0].PropertyPath)
	assert.Equal(t, float64(1.0), diffs[0].ExpectedValue)
	assert.Equal(t, float64(1.5), diffs[0].ActualValue)
}

// Positional (order-sensitive) pairing compares A[0] against B[0] and A[1]
// against B[1] independently: A[0]/B[0] differ on both Id and Score, and so
// do A[1]/B[1], for four differences total, not three — Id and Score both
// change at each positional slot.
func TestCompare_PositionalPairingProducesFourDifferences(t *testing.T) {
	t.Parallel()

	a := decode(t, `{"Results":[{"Id":1,"Score":1.0},{"Id":2,"Score":2.0}]}`)
	b := decode(t, `{"Results":[{"Id":2,"Score":2.0},{"Id":1,"Score":1.5}]}`)

	rules := compile(t, pipeline.RulesDocument{IgnoreCollectionOrder: false})
	diffs := NewWalker(rules).Compare(orderSchema(), "Order", a, b)

	paths := make([]string, len(diffs))
	for i, d := range diffs {
		paths[i] = d.PropertyPath
	}
	assert.ElementsMatch(t, []string{"Results[0].Id", "Results[0].Score", "Results[1].Id", "Results[1].Score"}, paths)
}

func TestCompare_IgnoreCompletelyPathSuppressesDifference(t *testing.T) {
	t.Parallel()

	a := decode(t, `{"Metadata":{"Timestamp":"2024-01-01T00:00:00Z","Region":"us"}}`)
	b := decode(t, `{"Metadata":{"Timestamp":"2025-06-01T00:00:00Z","Region":"us"}}`)

	rules := compile(t, pipeline.RulesDocument{
		Rules: []pipeline.Rule{{Path: "Metadata.Timestamp", IgnoreCompletely: true}},
	})
	diffs := NewWalker(rules).Compare(orderSchema(), "Order", a, b)
	assert.Empty(t, diffs)

	c := decode(t, `{"Metadata":{"Timestamp":"2024-01-01T00:00:00Z","Region":"eu"}}`)
	diffs = NewWalker(rules).Compare(orderSchema(), "Order", a, c)
	require.Len(t, diffs, 1)
	assert.Equal(t, "Metadata.Region", diffs[0].PropertyPath)
}

func TestCompare_OneSidedNullObjectBoundedDescendants(t *testing.T) {
	t.Parallel()

	a := decode(t, `{"Metadata":{"Timestamp":"2024-01-01T00:00:00Z","Region":"us"}}`)
	b := decode(t, `{}`)

	rules := compile(t, pipeline.RulesDocument{})
	diffs := NewWalker(rules).Compare(orderSchema(), "Order", a, b)

	paths := make([]string, len(diffs))
	for i, d := range diffs {
		paths[i] = d.PropertyPath
	}
	assert.ElementsMatch(t, []string{"Metadata.Timestamp", "Metadata.Region"}, paths)
	for _, d := range diffs {
		assert.Equal(t, pipeline.KindHintNullDiff, d.KindHint)
	}
}

func TestCompare_NumericNormalizationIgnoresFormatting(t *testing.T) {
	t.Parallel()

	a := decode(t, `{"Results":[{"Id":1,"Score":1}]}`)
	b := decode(t, `{"Results":[{"Id":1,"Score":1.0}]}`)

	rules := compile(t, pipeline.RulesDocument{})
	diffs := NewWalker(rules).Compare(orderSchema(), "Order", a, b)
	assert.Empty(t, diffs)
}

func TestCompare_SharedNodeReferenceDoesNotPanic(t *testing.T) {
	t.Parallel()

	shared := &modelregistry.Node{Kind: modelregistry.KindObject, Fields: map[string]*modelregistry.Node{}}
	self := &modelregistry.Node{Kind: modelregistry.KindObject, Fields: map[string]*modelregistry.Node{"Region": {Kind: modelregistry.KindScalar, Scalar: "us"}}}
	shared.Fields["Metadata"] = self

	rules := compile(t, pipeline.RulesDocument{})
	assert.NotPanics(t, func() {
		NewWalker(rules).Compare(orderSchema(), "Order", shared, shared)
	})
}
