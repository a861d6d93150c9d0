package dom

import "strings"

// Attribute is a single key/value attribute of an element. Attribute order
// is significant and duplicate keys are disallowed.
type Attribute struct {
	Key   string
	Value string
}

// Attributes returns a snapshot of the element's attributes in order.
func (n *Node) Attributes() []Attribute {
	if len(n.attrs) == 0 {
		return nil
	}
	attrs := make([]Attribute, len(n.attrs))
	copy(attrs, n.attrs)
	return attrs
}

// Attribute returns the value of the named attribute.
func (n *Node) Attribute(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// UpdateAttribute sets or replaces a single attribute in place, preserving
// insertion order. It reports whether the element changed; setting an
// attribute to its current value is a no-op.
func (n *Node) UpdateAttribute(key, value string) bool {
	if n.kind != ElementKind {
		return false
	}
	for i, a := range n.attrs {
		if a.Key == key {
			if a.Value == value {
				return false
			}
			old := a.Value
			n.attrs[i].Value = value
			notifyAttributeChange(n, key, old)
			return true
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Value: value})
	notifyAttributeChange(n, key, "")
	return true
}

// RemoveAttribute removes the named attribute, if present.
func (n *Node) RemoveAttribute(key string) bool {
	for i, a := range n.attrs {
		if a.Key == key {
			old := a.Value
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			notifyAttributeChange(n, key, old)
			return true
		}
	}
	return false
}

// Descriptor requests creation or merging of an element without building a
// live node. MatchNames is the set of element names considered equivalent
// to the described element; wrap operations skip and merge against any
// element whose name is in the set.
type Descriptor struct {
	Name       string
	Attributes []Attribute
	MatchNames []string
}

// NewDescriptor builds a descriptor for name. The matching-name set defaults
// to the name's equivalence class.
func NewDescriptor(name string, attrs ...Attribute) Descriptor {
	name = strings.ToLower(name)
	return Descriptor{
		Name:       name,
		Attributes: attrs,
		MatchNames: EquivalentNames(name),
	}
}

// Matches reports whether an element name belongs to the descriptor's
// matching-name set.
func (d Descriptor) Matches(name string) bool {
	for _, m := range d.MatchNames {
		if m == name {
			return true
		}
	}
	return false
}

// element builds a live element node from the descriptor.
func (d Descriptor) element() *Node {
	var attrs []Attribute
	if len(d.Attributes) > 0 {
		attrs = make([]Attribute, len(d.Attributes))
		copy(attrs, d.Attributes)
	}
	return NewElement(d.Name, attrs...)
}

// equivalenceClasses groups element names that represent the same inline
// style. Applying a style never stacks a second wrapper when an element of
// the same class already covers the range.
var equivalenceClasses = [][]string{
	{"b", "strong"},
	{"i", "em"},
	{"u", "ins"},
	{"s", "strike", "del"},
}

// EquivalentNames returns the equivalence class of an element name. Names
// without a class are equivalent only to themselves.
func EquivalentNames(name string) []string {
	for _, class := range equivalenceClasses {
		for _, m := range class {
			if m == name {
				return class
			}
		}
	}
	return []string{name}
}

// CanonicalName maps an element name to the canonical member of its
// equivalence class ("strong" canonicalizes to "b").
func CanonicalName(name string) string {
	for _, class := range equivalenceClasses {
		for _, m := range class {
			if m == name {
				return class[0]
			}
		}
	}
	return name
}
