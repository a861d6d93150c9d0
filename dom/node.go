package dom

import (
	"strings"
)

// NodeKind discriminates the two node variants of the document tree.
type NodeKind int

const (
	// ElementKind is a named element with attributes and children.
	ElementKind NodeKind = iota
	// TextKind is a leaf holding a run of characters.
	TextKind
)

// RootNodeName is the name of the distinguished root element. The root is
// always present and always has at least one child; an empty document is a
// root with a single empty text node.
const RootNodeName = "#root"

// Node is a node in the document tree. Elements own their children; the
// parent pointer is a non-owning back-reference for upward traversal.
type Node struct {
	kind  NodeKind
	name  string // element name, lower-cased; "#text" for text nodes
	data  string // character data, text nodes only
	attrs []Attribute

	parent      *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	callbacks []ChangeCallback // change callbacks, set on the root only
}

// voidElements never have children and serialize without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// NewElement creates a detached element node.
func NewElement(name string, attrs ...Attribute) *Node {
	return &Node{
		kind:  ElementKind,
		name:  strings.ToLower(name),
		attrs: attrs,
	}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{
		kind: TextKind,
		name: "#text",
		data: data,
	}
}

// NewRoot creates a fresh root element holding a single empty text node.
func NewRoot() *Node {
	root := NewElement(RootNodeName)
	root.AppendChild(NewText(""))
	return root
}

// Kind returns the node variant.
func (n *Node) Kind() NodeKind { return n.kind }

// Name returns the element name, or "#text" for text nodes.
func (n *Node) Name() string { return n.name }

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool { return n.kind == ElementKind }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.kind == TextKind }

// IsRoot reports whether the node is the distinguished root element.
func (n *Node) IsRoot() bool { return n.kind == ElementKind && n.name == RootNodeName }

// IsVoid reports whether the node is a void element (img, br, ...).
func (n *Node) IsVoid() bool { return n.kind == ElementKind && voidElements[n.name] }

// Data returns the character data of a text node.
func (n *Node) Data() string { return n.data }

// SetData replaces the character data of a text node.
func (n *Node) SetData(data string) {
	if n.kind != TextKind || n.data == data {
		return
	}
	old := n.data
	n.data = data
	notifyTextChange(n, old)
}

// Parent returns the parent node, or nil for a detached node or the root.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child node, or nil.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child node, or nil.
func (n *Node) LastChild() *Node { return n.lastChild }

// PrevSibling returns the previous sibling, or nil.
func (n *Node) PrevSibling() *Node { return n.prevSibling }

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node { return n.nextSibling }

// Children returns a snapshot slice of the child nodes.
func (n *Node) Children() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// HasChildren reports whether the node has any children.
func (n *Node) HasChildren() bool { return n.firstChild != nil }

// Root returns the root of the tree containing this node.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// isInclusiveAncestor reports whether node is n or an ancestor of n.
// Insertion rejects inclusive ancestors, which keeps the tree acyclic.
func (n *Node) isInclusiveAncestor(node *Node) bool {
	if node == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur == node {
			return true
		}
	}
	return false
}

// AppendChild adds child at the end of n's children. Returns an error if the
// insertion would create a cycle or the parent cannot hold children.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts newChild before refChild. A nil refChild appends.
func (n *Node) InsertBefore(newChild, refChild *Node) error {
	if newChild == nil {
		return ErrNotFound("the node to be inserted is null")
	}
	if n.kind != ElementKind || n.IsVoid() {
		return ErrHierarchyRequest("only non-void elements can hold children")
	}
	if n.isInclusiveAncestor(newChild) {
		return ErrHierarchyRequest("the new child contains the parent")
	}
	if refChild != nil && refChild.parent != n {
		return ErrNotFound("the reference node is not a child of this node")
	}
	if newChild == refChild {
		return nil
	}
	if newChild.parent != nil {
		newChild.parent.removeChildInternal(newChild)
	}
	newChild.parent = n
	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
	} else {
		newChild.prevSibling = refChild.prevSibling
		newChild.nextSibling = refChild
		if refChild.prevSibling != nil {
			refChild.prevSibling.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		refChild.prevSibling = newChild
	}
	notifyChildListChange(n)
	return nil
}

// RemoveChild removes child from n's children.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrNotFound("the node to be removed is not a child of this node")
	}
	n.removeChildInternal(child)
	notifyChildListChange(n)
	return nil
}

func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// Length returns the node's extent in the flattened text projection,
// measured in UTF-16 code units. Images count as one object-replacement
// unit, line breaks as one unit, other void elements as zero.
func (n *Node) Length() int {
	switch {
	case n.kind == TextKind:
		return UTF16Length(n.data)
	case n.name == "img", n.name == "br":
		return 1
	default:
		sum := 0
		for c := n.firstChild; c != nil; c = c.nextSibling {
			sum += c.Length()
		}
		return sum
	}
}

// ObjectReplacement stands in for atomic embedded objects (images) in the
// flattened text projection.
const ObjectReplacement = '￼'

// Text returns the flattened text projection of the subtree: the in-order
// concatenation of text node contents, with images contributing U+FFFC and
// line breaks contributing "\n".
func (n *Node) Text() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	switch {
	case n.kind == TextKind:
		sb.WriteString(n.data)
	case n.name == "img":
		sb.WriteRune(ObjectReplacement)
	case n.name == "br":
		sb.WriteByte('\n')
	default:
		for c := n.firstChild; c != nil; c = c.nextSibling {
			c.collectText(sb)
		}
	}
}

// Clone copies the node. A deep clone copies the whole subtree.
func (n *Node) Clone(deep bool) *Node {
	clone := &Node{
		kind: n.kind,
		name: n.name,
		data: n.data,
	}
	if len(n.attrs) > 0 {
		clone.attrs = make([]Attribute, len(n.attrs))
		copy(clone.attrs, n.attrs)
	}
	if deep {
		for c := n.firstChild; c != nil; c = c.nextSibling {
			clone.appendChildQuiet(c.Clone(true))
		}
	}
	return clone
}

// appendChildQuiet appends without validation or change notification.
// Used while assembling detached subtrees.
func (n *Node) appendChildQuiet(child *Node) {
	child.parent = n
	child.prevSibling = n.lastChild
	child.nextSibling = nil
	if n.lastChild != nil {
		n.lastChild.nextSibling = child
	} else {
		n.firstChild = child
	}
	n.lastChild = child
}

// Normalize coalesces adjacent sibling text nodes and removes empty text
// nodes throughout the subtree. The root invariant (at least one child) is
// restored afterwards if needed.
func (n *Node) Normalize() {
	var doomed []*Node
	for child := n.firstChild; child != nil; {
		next := child.nextSibling
		if child.kind == TextKind {
			if child.data == "" {
				doomed = append(doomed, child)
			} else {
				for next != nil && next.kind == TextKind {
					child.SetData(child.data + next.data)
					doomed = append(doomed, next)
					next = next.nextSibling
				}
			}
		} else {
			child.Normalize()
		}
		child = next
	}
	for _, node := range doomed {
		n.RemoveChild(node)
	}
	if n.IsRoot() && n.firstChild == nil {
		n.AppendChild(NewText(""))
	}
}

// Equals reports structural equality of two subtrees. Element names are
// compared canonically, so <strong> equals <b>; attribute order matters,
// mirroring the serializer's contract.
func (n *Node) Equals(other *Node) bool {
	if other == nil {
		return false
	}
	if n.kind != other.kind {
		return false
	}
	if n.kind == TextKind {
		return n.data == other.data
	}
	if CanonicalName(n.name) != CanonicalName(other.name) {
		return false
	}
	if len(n.attrs) != len(other.attrs) {
		return false
	}
	for i := range n.attrs {
		if n.attrs[i] != other.attrs[i] {
			return false
		}
	}
	c1, c2 := n.firstChild, other.firstChild
	for c1 != nil && c2 != nil {
		if !c1.Equals(c2) {
			return false
		}
		c1, c2 = c1.nextSibling, c2.nextSibling
	}
	return c1 == nil && c2 == nil
}
