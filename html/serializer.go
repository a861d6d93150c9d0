package html

import (
	"strings"

	"github.com/editkit/richdom/dom"
)

// Serialize converts a document tree back into an HTML string. Attributes
// serialize in insertion order; void elements emit no closing tag; non-void
// elements without children still emit an open/close pair. Serialization is
// idempotent with Parse: parsing the output and serializing again yields the
// same string.
func Serialize(root *dom.Node) string {
	var sb strings.Builder
	if root.IsRoot() {
		for c := root.FirstChild(); c != nil; c = c.NextSibling() {
			serializeNode(c, &sb)
		}
	} else {
		serializeNode(root, &sb)
	}
	return sb.String()
}

func serializeNode(n *dom.Node, sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(escapeText(n.Data()))
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Name())
	for _, a := range n.Attributes() {
		sb.WriteString(" ")
		sb.WriteString(a.Key)
		sb.WriteString("=\"")
		sb.WriteString(escapeAttrValue(a.Value))
		sb.WriteString("\"")
	}
	sb.WriteString(">")
	if n.IsVoid() {
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		serializeNode(c, sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Name())
	sb.WriteString(">")
}

// escapeText escapes text content: & < >
func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeAttrValue escapes attribute values: & < > "
func escapeAttrValue(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
