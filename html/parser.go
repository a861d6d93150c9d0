// Package html converts between markup strings and the document tree,
// using golang.org/x/net/html as the underlying parser implementation.
package html

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/editkit/richdom/dom"
)

// Parse converts an HTML fragment into a fresh document tree. Unknown
// elements pass through as opaque element nodes; void elements (img, br)
// become zero-child elements; adjacent text runs are coalesced. A parse
// failure is fatal for the load — no partial tree is returned.
func Parse(markup string) (*dom.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	root := dom.NewElement(dom.RootNodeName)
	for _, n := range nodes {
		convertInto(root, n)
	}
	root.Normalize()
	return root, nil
}

// convertInto appends the converted form of n to parent. Comments and
// doctypes carry no editable content and are dropped.
func convertInto(parent *dom.Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		parent.AppendChild(dom.NewText(n.Data))
	case html.ElementNode:
		var attrs []dom.Attribute
		for _, a := range n.Attr {
			attrs = append(attrs, dom.Attribute{Key: a.Key, Value: a.Val})
		}
		el := dom.NewElement(n.Data, attrs...)
		parent.AppendChild(el)
		if el.IsVoid() {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convertInto(el, c)
		}
	}
}
