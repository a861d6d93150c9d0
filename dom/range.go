package dom

import "fmt"

// Range is a half-open interval [Start, End) over the flattened text
// projection, measured in UTF-16 code units. Editing operations address the
// tree through ranges, never through node references, because node
// boundaries shift as the tree mutates.
type Range struct {
	Start int
	End   int
}

// NewRange builds a range from start and end offsets, swapping them if
// reversed.
func NewRange(start, end int) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Len returns the number of UTF-16 code units the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Collapsed reports whether the range is empty.
func (r Range) Collapsed() bool { return r.End <= r.Start }

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersects reports whether the span [start, end) overlaps r by at least
// one code unit.
func (r Range) Intersects(start, end int) bool {
	return start < r.End && end > r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// checkRange validates a range against the document's flattened length and
// rejects offsets that are not addressable because they fall between the
// halves of a surrogate pair.
func checkRange(root *Node, r Range) error {
	if length := root.Length(); r.Start < 0 || r.End < r.Start || r.End > length {
		return ErrIndexSize(fmt.Sprintf("range %s outside document of length %d", r, length))
	}
	if !root.validOffset(r.Start) || !root.validOffset(r.End) {
		return ErrIndexSize(fmt.Sprintf("range %s splits a surrogate pair", r))
	}
	return nil
}

// validOffset reports whether offset lies on a code-point boundary of the
// flattened projection.
func (n *Node) validOffset(offset int) bool {
	leaf, start := n.leafAt(offset)
	if leaf == nil || leaf.kind != TextKind {
		return true
	}
	return UTF16OffsetToByteOffset(leaf.data, offset-start) >= 0
}

// absoluteStart returns the offset of n's span within its tree.
func absoluteStart(n *Node) int {
	pos := 0
	for cur := n; cur.parent != nil; cur = cur.parent {
		for s := cur.prevSibling; s != nil; s = s.prevSibling {
			pos += s.Length()
		}
	}
	return pos
}

// SplitTextAt splits a text node at a UTF-16 offset, inserting the tail as
// a new sibling after it. Returns the tail node, or nil when the offset does
// not fall inside the node (including offsets landing between surrogate
// halves).
func (n *Node) SplitTextAt(offset int) *Node {
	if n.kind != TextKind {
		return nil
	}
	b := UTF16OffsetToByteOffset(n.data, offset)
	if b < 0 {
		return nil
	}
	tail := NewText(n.data[b:])
	n.SetData(n.data[:b])
	if n.parent != nil {
		n.parent.InsertBefore(tail, n.nextSibling)
	}
	return tail
}

// splitLeafAt forces a text-leaf boundary at offset (relative to n's span)
// without splitting any element. Atomic leaves (img, br) cannot be split and
// never contain an interior offset.
func (n *Node) splitLeafAt(offset int) {
	if offset <= 0 || offset >= n.Length() {
		return
	}
	pos := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		clen := c.Length()
		if offset > pos && offset < pos+clen {
			if c.kind == TextKind {
				c.SplitTextAt(offset - pos)
			} else {
				c.splitLeafAt(offset - pos)
			}
			return
		}
		pos += clen
	}
}

// splitChildAt forces a child boundary of n at offset (relative to n's
// span). An element child straddling the offset is split into two elements
// of the same name and attributes, recursively down to the text leaves.
func (n *Node) splitChildAt(offset int) {
	if offset <= 0 || offset >= n.Length() {
		return
	}
	pos := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		clen := c.Length()
		if offset > pos && offset < pos+clen {
			rel := offset - pos
			if c.kind == TextKind {
				c.SplitTextAt(rel)
				return
			}
			c.splitChildAt(rel)
			twin := c.Clone(false)
			n.InsertBefore(twin, c.nextSibling)
			var move []*Node
			cpos := 0
			for gc := c.firstChild; gc != nil; gc = gc.nextSibling {
				if cpos >= rel {
					move = append(move, gc)
				}
				cpos += gc.Length()
			}
			for _, gc := range move {
				twin.AppendChild(gc)
			}
			return
		}
		pos += clen
	}
}

// leafAt returns the leaf node (text or atomic element) containing offset,
// together with the leaf's start relative to n. Returns nil for an offset at
// or beyond the end of n's span.
func (n *Node) leafAt(offset int) (*Node, int) {
	pos := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		clen := c.Length()
		if offset < pos+clen {
			if c.kind == TextKind || c.IsVoid() {
				return c, pos
			}
			leaf, start := c.leafAt(offset - pos)
			if leaf == nil {
				return nil, 0
			}
			return leaf, start + pos
		}
		pos += clen
	}
	return nil, 0
}

// lastLeaf returns the last leaf of the subtree, or nil.
func lastLeaf(n *Node) *Node {
	for c := n.lastChild; c != nil; c = c.prevSibling {
		if c.kind == TextKind || c.IsVoid() {
			return c
		}
		if l := lastLeaf(c); l != nil {
			return l
		}
	}
	return nil
}

// collectLeavesBetween appends all leaves lying entirely within
// [start, end) to out. pos is the offset of n's first child.
func (n *Node) collectLeavesBetween(pos, start, end int, out *[]*Node) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		clen := c.Length()
		if c.kind == TextKind || c.IsVoid() {
			if pos >= start && pos+clen <= end {
				*out = append(*out, c)
			}
		} else {
			c.collectLeavesBetween(pos, start, end, out)
		}
		pos += clen
	}
}

// childStartingAt returns the child whose span starts exactly at offset
// (relative to n), or nil.
func (n *Node) childStartingAt(offset int) *Node {
	pos := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if pos == offset {
			return c
		}
		pos += c.Length()
	}
	return nil
}
