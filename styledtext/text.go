package styledtext

import (
	"github.com/editkit/richdom/dom"
)

// Span is a maximal run of characters sharing one accumulated style. Side
// payload (link targets, image sources) travels in Attributes.
type Span struct {
	Range      dom.Range
	Style      Style
	Attributes map[string]string
}

// ParagraphProperty describes the block-level formatting of one paragraph.
type ParagraphProperty struct {
	Name       string
	Attributes map[string]string
}

// Paragraph associates a range of the flattened text with its paragraph
// property.
type Paragraph struct {
	Range    dom.Range
	Property ParagraphProperty
}

// Text is the styled-text projection of a document tree: the flattened text
// plus style spans and paragraph descriptions. Offsets are UTF-16 code
// units, matching dom.Range addressing.
type Text struct {
	Content    string
	Spans      []Span
	Paragraphs []Paragraph
}

// Len returns the length of the flattened text in UTF-16 code units.
func (t *Text) Len() int { return dom.UTF16Length(t.Content) }

// StyleAt returns the span covering the given offset, if any.
func (t *Text) StyleAt(offset int) (Span, bool) {
	for _, s := range t.Spans {
		if s.Range.Start <= offset && offset < s.Range.End {
			return s, true
		}
	}
	return Span{}, false
}

func attrsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
