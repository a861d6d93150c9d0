package dom

// Range-based editing operations. All operations validate the range against
// the current document bounds first and leave the tree untouched on failure;
// a style-only operation never changes the flattened text projection.

// blockElements are the paragraph-level elements. Unstyled insertions land
// directly under the lowest block ancestor of the edited range.
var blockElements = map[string]bool{
	RootNodeName: true,
	"p":          true, "div": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
}

// IsBlockName reports whether an element name is paragraph-level.
func IsBlockName(name string) bool { return blockElements[name] }

// ReplaceCharacters removes all content in r and inserts text in its place.
// With inheritStyle the new text takes over the element ancestry of the node
// previously occupying the range's start; otherwise it becomes a direct
// child of the lowest block ancestor containing the range.
func ReplaceCharacters(root *Node, r Range, text string, inheritStyle bool) error {
	return replaceRange(root, r, NewText(text), inheritStyle)
}

// ReplaceWithElement removes all content in r and inserts a fresh element
// built from desc, typically an atomic embedded object such as an image.
func ReplaceWithElement(root *Node, r Range, desc Descriptor) error {
	return replaceRange(root, r, desc.element(), true)
}

func replaceRange(root *Node, r Range, newNode *Node, inheritStyle bool) error {
	if err := checkRange(root, r); err != nil {
		tracer().Errorf("dom: replace characters: %v", err)
		return err
	}
	root.splitLeafAt(r.Start)
	root.splitLeafAt(r.End)

	var doomed []*Node
	if !r.Collapsed() {
		root.collectLeavesBetween(0, r.Start, r.End, &doomed)
	}

	if inheritStyle {
		if leaf, _ := root.leafAt(r.Start); leaf != nil {
			leaf.parent.InsertBefore(newNode, leaf)
		} else if last := lastLeaf(root); last != nil {
			last.parent.InsertBefore(newNode, last.nextSibling)
		} else {
			root.AppendChild(newNode)
		}
	} else {
		block := blockAncestorFor(root, r)
		rel := r.Start - absoluteStart(block)
		block.splitChildAt(rel)
		block.InsertBefore(newNode, block.childStartingAt(rel))
	}

	for _, leaf := range doomed {
		removeAndPrune(leaf)
	}
	root.Normalize()
	return nil
}

// removeAndPrune detaches a leaf and removes any ancestor elements left
// empty by the removal, stopping at the root.
func removeAndPrune(leaf *Node) {
	parent := leaf.parent
	if parent == nil {
		return
	}
	parent.RemoveChild(leaf)
	for parent != nil && !parent.IsRoot() && parent.firstChild == nil && !parent.IsVoid() {
		next := parent.parent
		if next == nil {
			break
		}
		next.RemoveChild(parent)
		parent = next
	}
}

// blockAncestorFor returns the lowest block-level element containing r.
func blockAncestorFor(root *Node, r Range) *Node {
	n := lowestWrapping(root, r, false)
	for n != nil && n != root && !blockElements[n.name] {
		n = n.parent
	}
	if n == nil {
		return root
	}
	return n
}

// WrapChildren applies a style element described by desc over r. The lowest
// node properly containing the range is located, children are split at the
// range boundaries, and every intersecting child run is wrapped. Children
// already matching the descriptor's name set are not wrapped again
// (idempotence); they adopt the descriptor's attributes instead. Adjacent
// equivalent siblings produced by the wrap are merged, never nested and
// never stacked.
func WrapChildren(root *Node, r Range, desc Descriptor) error {
	if err := checkRange(root, r); err != nil {
		tracer().Errorf("dom: wrap children: %v", err)
		return err
	}
	if r.Collapsed() {
		return nil
	}
	container := lowestWrapping(root, r, true)
	if container.IsVoid() && container.parent != nil {
		container = container.parent
	}
	container.Normalize()
	base := absoluteStart(container)
	container.splitChildAt(r.Start - base)
	container.splitChildAt(r.End - base)

	var run []*Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		wrapper := desc.element()
		container.InsertBefore(wrapper, run[0])
		for _, c := range run {
			wrapper.AppendChild(c)
		}
		run = nil
	}
	pos := base
	for _, child := range container.Children() {
		clen := child.Length()
		inside := pos >= r.Start && pos+clen <= r.End && clen > 0
		switch {
		case inside && child.kind == ElementKind && desc.Matches(child.name):
			// already carries the style; adopt the descriptor's attributes
			// so a re-applied link updates its target
			for _, a := range desc.Attributes {
				child.UpdateAttribute(a.Key, a.Value)
			}
			flush()
		case inside:
			run = append(run, child)
		default:
			flush()
		}
		pos += clen
	}
	flush()

	mergeAdjacentElements(container, desc.MatchNames)
	container.Normalize()
	return nil
}

// Unwrap removes every element whose name is in names from the ancestry of
// the content in r. Elements extending past a range boundary are split there
// so that content outside the range keeps its wrapper. Finding no matching
// element is a defined no-op, not an error.
func Unwrap(root *Node, r Range, names []string) error {
	if err := checkRange(root, r); err != nil {
		tracer().Errorf("dom: unwrap: %v", err)
		return err
	}
	changed := false
	for {
		el, start := findMatchingElement(root, 0, r, names)
		if el == nil {
			break
		}
		end := start + el.Length()
		switch {
		case start < r.Start:
			parent := el.parent
			parent.splitChildAt(r.Start - absoluteStart(parent))
		case end > r.End:
			parent := el.parent
			parent.splitChildAt(r.End - absoluteStart(parent))
		default:
			parent := el.parent
			for _, c := range el.Children() {
				parent.InsertBefore(c, el)
			}
			parent.RemoveChild(el)
			changed = true
		}
	}
	if changed {
		root.Normalize()
	}
	return nil
}

// findMatchingElement returns the first element (pre-order) whose name is in
// names and whose span overlaps r, together with its absolute start. pos is
// the offset of n's first child.
func findMatchingElement(n *Node, pos int, r Range, names []string) (*Node, int) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		clen := c.Length()
		if c.kind == ElementKind && r.Intersects(pos, pos+clen) {
			if nameInSet(c.name, names) {
				return c, pos
			}
			if el, start := findMatchingElement(c, pos, r, names); el != nil {
				return el, start
			}
		}
		pos += clen
	}
	return nil, 0
}

func nameInSet(name string, names []string) bool {
	for _, m := range names {
		if m == name {
			return true
		}
	}
	return false
}

// LowestElementNodeWrapping returns the smallest-depth element whose
// flattened-text span fully contains r. Used to locate atomic elements,
// e.g. the img element covering a selection. Returns nil for an invalid
// range.
func LowestElementNodeWrapping(root *Node, r Range) *Node {
	if checkRange(root, r) != nil {
		return nil
	}
	return lowestWrapping(root, r, false)
}

// lowestWrapping descends from root to the deepest element containing r.
// With proper set, descent stops before a child whose span coincides
// exactly with r, so that wrapping such a range nests a new element around
// the child instead of inside it.
func lowestWrapping(root *Node, r Range, proper bool) *Node {
	node := root
	pos := 0
	for {
		descended := false
		p := pos
		for c := node.firstChild; c != nil; c = c.nextSibling {
			clen := c.Length()
			if c.kind == ElementKind && clen > 0 && p <= r.Start && r.End <= p+clen {
				if proper && p == r.Start && p+clen == r.End {
					break
				}
				node, pos = c, p
				descended = true
				break
			}
			p += clen
		}
		if !descended || !node.HasChildren() {
			return node
		}
	}
}

// mergeAdjacentElements fuses adjacent sibling elements whose names both
// belong to names and whose attributes are identical. Invariant: no two
// equivalent siblings where one would do.
func mergeAdjacentElements(parent *Node, names []string) {
	for c := parent.firstChild; c != nil; {
		next := c.nextSibling
		if next != nil && c.kind == ElementKind && next.kind == ElementKind &&
			nameInSet(c.name, names) && nameInSet(next.name, names) &&
			attributesEqual(c.attrs, next.attrs) {
			for _, gc := range next.Children() {
				c.AppendChild(gc)
			}
			parent.RemoveChild(next)
			continue
		}
		c = next
	}
}

func attributesEqual(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
