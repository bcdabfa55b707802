package diffengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/tayzer/compareengine/internal/modelregistry"
)

// identityFieldNames is the union of property names spec §4.2 step 5 treats
// as identity fields for order-insensitive collection pairing.
var identityFieldNames = []string{"Id", "Key", "Name"}

// itemSignature computes the pairing key for one collection item under
// order-insensitive comparison: an identity field's value when the item
// declares one, otherwise a structural hash of the whole item (spec §4.2
// step 5, "otherwise structural hash").
func itemSignature(item *modelregistry.Node) string {
	if item == nil {
		return "null"
	}
	switch item.Kind {
	case modelregistry.KindObject:
		for _, name := range identityFieldNames {
			if f := item.Field(name); f != nil && f.Kind == modelregistry.KindScalar {
				return fmt.Sprintf("id:%s=%v", name, f.Scalar)
			}
		}
		return fmt.Sprintf("hash:%016x", xxh3.HashString(canonicalString(item)))
	case modelregistry.KindScalar:
		return fmt.Sprintf("scalar:%v", item.Scalar)
	default:
		return fmt.Sprintf("hash:%016x", xxh3.HashString(canonicalString(item)))
	}
}

// canonicalString renders a Node deterministically (sorted object keys) so
// structurally identical items hash identically regardless of decode order.
func canonicalString(n *modelregistry.Node) string {
	var sb strings.Builder
	writeCanonical(&sb, n)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, n *modelregistry.Node) {
	if n == nil || n.Kind == modelregistry.KindNull {
		sb.WriteString("null")
		return
	}
	switch n.Kind {
	case modelregistry.KindScalar:
		fmt.Fprintf(sb, "%v", n.Scalar)
	case modelregistry.KindArray:
		sb.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, item)
		}
		sb.WriteByte(']')
	case modelregistry.KindObject:
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			writeCanonical(sb, n.Fields[k])
		}
		sb.WriteByte('}')
	}
}

// rawRepr renders a Node as a JSON-marshalable value suitable for
// Difference.ExpectedValue/ActualValue: scalars pass through unchanged,
// everything else collapses to its canonical string form.
func rawRepr(n *modelregistry.Node) any {
	if n == nil || n.Kind == modelregistry.KindNull {
		return nil
	}
	if n.Kind == modelregistry.KindScalar {
		return n.Scalar
	}
	return canonicalString(n)
}
