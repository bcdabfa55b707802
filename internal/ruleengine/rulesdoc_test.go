package ruleengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRulesDocument_Valid(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"ignore_collection_order": true,
		"ignore_string_case": false,
		"ignore_xml_namespaces": true,
		"rules": [{"path": "Metadata.Timestamp", "ignore_completely": true}],
		"smart_rules": [{"type": "PropertyName", "value": "Secret", "enabled": true}]
	}`)

	doc, err := DecodeRulesDocument(raw)
	require.NoError(t, err)
	assert.True(t, doc.IgnoreCollectionOrder)
	assert.True(t, doc.IgnoreXMLNamespaces)
	require.Len(t, doc.Rules, 1)
	assert.Equal(t, "Metadata.Timestamp", doc.Rules[0].Path)
}

func TestDecodeRulesDocument_MalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := DecodeRulesDocument([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeRulesDocument_RuleMissingPath(t *testing.T) {
	t.Parallel()

	_, err := DecodeRulesDocument([]byte(`{"rules":[{"ignore_completely": true}]}`))
	assert.Error(t, err)
}

func TestDecodeRulesDocument_RuleWithNoFlagsSet(t *testing.T) {
	t.Parallel()

	_, err := DecodeRulesDocument([]byte(`{"rules":[{"path": "A.B"}]}`))
	assert.Error(t, err)
}

func TestDecodeRulesDocument_UnknownSmartRuleKind(t *testing.T) {
	t.Parallel()

	_, err := DecodeRulesDocument([]byte(`{"smart_rules":[{"type": "Bogus", "value": "x", "enabled": true}]}`))
	assert.Error(t, err)
}

func TestDecodeRulesDocument_SmartRuleMissingValue(t *testing.T) {
	t.Parallel()

	_, err := DecodeRulesDocument([]byte(`{"smart_rules":[{"type": "PropertyName", "enabled": true}]}`))
	assert.Error(t, err)
}

func TestDecodeRulesDocument_NullEmptyEquivalenceNeedsNoValue(t *testing.T) {
	t.Parallel()

	doc, err := DecodeRulesDocument([]byte(`{"smart_rules":[{"type": "NullEmptyCollectionEquivalence", "enabled": true}]}`))
	require.NoError(t, err)
	require.Len(t, doc.SmartRules, 1)
}

func TestDecodeRulesDocument_Empty(t *testing.T) {
	t.Parallel()

	doc, err := DecodeRulesDocument([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Rules)
	assert.Empty(t, doc.SmartRules)
}
