package modelregistry

import "encoding/json"

// decodeJSON parses JSON bytes into a generic Node tree. Numbers decode as
// float64 and objects preserve no particular key order (the diff walk is
// schema-driven, not order-sensitive, so this is not a correctness concern).
func decodeJSON(data []byte, rootType string) (*Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	n := fromAny(raw)
	if n != nil {
		n.TypeName = rootType
	}
	return n, nil
}

func fromAny(v any) *Node {
	switch val := v.(type) {
	case nil:
		return &Node{Kind: KindNull}
	case map[string]any:
		n := newObjectNode()
		for k, child := range val {
			n.Fields[k] = fromAny(child)
		}
		return n
	case []any:
		items := make([]*Node, len(val))
		for i, child := range val {
			items[i] = fromAny(child)
		}
		return &Node{Kind: KindArray, Items: items}
	default:
		return &Node{Kind: KindScalar, Scalar: val}
	}
}
