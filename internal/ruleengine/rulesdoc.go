package ruleengine

import (
	"encoding/json"
	"fmt"

	"github.com/tayzer/compareengine/internal/pipeline"
)

var validSmartKinds = map[pipeline.SmartIgnoreKind]bool{
	pipeline.SmartIgnorePropertyName:      true,
	pipeline.SmartIgnoreNamePattern:       true,
	pipeline.SmartIgnorePropertyType:      true,
	pipeline.SmartIgnoreCollectionOrder:   true,
	pipeline.SmartIgnoreNullEmptyEquality: true,
}

// DecodeRulesDocument parses the caller-supplied rules JSON (spec §6) and
// performs semantic validation before it is handed to Compile. Decode
// failures and semantic problems both count as input-shape errors (spec
// §7.1): the caller should wrap the returned error in a pipeline.JobError
// and fail the job rather than attempt partial recovery.
func DecodeRulesDocument(data []byte) (pipeline.RulesDocument, error) {
	var doc pipeline.RulesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return pipeline.RulesDocument{}, fmt.Errorf("ruleengine: decode rules document: %w", err)
	}

	if err := validateRulesDocument(doc); err != nil {
		return pipeline.RulesDocument{}, err
	}

	return doc, nil
}

func validateRulesDocument(doc pipeline.RulesDocument) error {
	for i, rule := range doc.Rules {
		if rule.Path == "" {
			return fmt.Errorf("ruleengine: rules[%d]: path is required", i)
		}
		if !rule.IgnoreCompletely && !rule.IgnoreOrder {
			return fmt.Errorf("ruleengine: rules[%d] (%s): must set ignore_completely or ignore_order", i, rule.Path)
		}
	}

	for i, sr := range doc.SmartRules {
		if !validSmartKinds[sr.Kind] {
			return fmt.Errorf("ruleengine: smart_rules[%d]: unrecognized type %q", i, sr.Kind)
		}
		if sr.Enabled && sr.Value == "" && sr.Kind != pipeline.SmartIgnoreNullEmptyEquality {
			return fmt.Errorf("ruleengine: smart_rules[%d] (%s): value is required", i, sr.Kind)
		}
	}

	return nil
}
