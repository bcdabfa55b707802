package modelregistry

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// decodeXML parses XML bytes into a generic Node tree using a token-by-token
// walk (encoding/xml.Decoder), since the document's declared schema -- not
// Go struct tags -- drives field interpretation. Attributes become object
// fields prefixed with "@". Repeated child elements with the same local name
// collapse into an array field under that name; the enclosing element stays
// an object, and a child element that occurs once stays a single value, not
// a one-item array. When ignoreNamespaces is set, element and attribute names
// are taken from their local part only, dropping any namespace prefix/URI.
func decodeXML(data []byte, rootType string, ignoreNamespaces bool) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))

	root, err := nextElement(dec, ignoreNamespaces)
	if err != nil {
		return nil, fmt.Errorf("modelregistry: decode xml: %w", err)
	}
	if root != nil {
		root.TypeName = rootType
	}
	return root, nil
}

// nextElement consumes tokens up to and including the next StartElement and
// returns the fully parsed subtree rooted at it, or nil at end of input.
func nextElement(dec *xml.Decoder, ignoreNamespaces bool) (*Node, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start, ignoreNamespaces)
		}
	}
}

func localName(name xml.Name, ignoreNamespaces bool) string {
	if ignoreNamespaces || name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func parseElement(dec *xml.Decoder, start xml.StartElement, ignoreNamespaces bool) (*Node, error) {
	node := newObjectNode()
	for _, attr := range start.Attr {
		node.Fields["@"+localName(attr.Name, ignoreNamespaces)] = &Node{Kind: KindScalar, Scalar: attr.Value}
	}

	var textContent strings.Builder
	hasChildElements := false

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			hasChildElements = true
			child, err := parseElement(dec, t, ignoreNamespaces)
			if err != nil {
				return nil, err
			}
			name := localName(t.Name, ignoreNamespaces)
			addChild(node, name, child)
		case xml.CharData:
			textContent.Write(t)
		case xml.EndElement:
			if !hasChildElements {
				text := strings.TrimSpace(textContent.String())
				if text != "" || len(node.Fields) == 0 {
					if len(node.Fields) == 0 {
						return &Node{Kind: KindScalar, Scalar: text}, nil
					}
					node.Fields["#text"] = &Node{Kind: KindScalar, Scalar: text}
				}
			}
			return node, nil
		}
	}
}

// addChild merges a repeated child element name into an array field:
// <Results><Item/><Item/></Results> yields an object Results whose Item
// field is a two-item array.
func addChild(parent *Node, name string, child *Node) {
	existing, ok := parent.Fields[name]
	if !ok {
		parent.Fields[name] = child
		return
	}
	if existing.Kind == KindArray {
		existing.Items = append(existing.Items, child)
		return
	}
	parent.Fields[name] = &Node{Kind: KindArray, Items: []*Node{existing, child}}
}
