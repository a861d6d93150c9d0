package styledtext

import (
	"strings"

	"github.com/editkit/richdom/dom"
)

// Converter overrides the importer's default handling for one element name.
// It returns the text the element contributes to the flattened projection
// and the extra style flags for that run. Returning ok == false falls back
// to the default handling.
type Converter func(el *dom.Node) (text string, style Style, ok bool)

// Importer derives the styled-text projection from a document tree. It
// walks the tree depth-first, accumulating a current style while entering
// and leaving elements, and emits one span per maximal run of identically
// styled text.
type Importer struct {
	// Base is the default style merged into every emitted span.
	Base Style
	// Converters maps element names to custom conversion overrides.
	Converters map[string]Converter
}

// Import flattens the tree into a styled text. Paragraph-level elements
// become paragraph entries carrying their element name and attributes as
// the paragraph property; images emit a single object-replacement unit
// carrying the element's attributes as side payload.
func (imp *Importer) Import(root *dom.Node) *Text {
	w := &importWalk{imp: imp}
	w.walk(root, imp.Base, nil)
	return &Text{
		Content:    w.text.String(),
		Spans:      w.spans,
		Paragraphs: w.paragraphs,
	}
}

type importWalk struct {
	imp        *Importer
	text       strings.Builder
	pos        int // current offset in UTF-16 code units
	spans      []Span
	paragraphs []Paragraph
}

func (w *importWalk) walk(n *dom.Node, style Style, attrs map[string]string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch {
		case c.IsText():
			w.emit(c.Data(), style, attrs)
		case c.IsElement():
			w.element(c, style, attrs)
		}
	}
}

func (w *importWalk) element(el *dom.Node, style Style, attrs map[string]string) {
	if conv, ok := w.imp.Converters[el.Name()]; ok {
		if text, extra, handled := conv(el); handled {
			w.emit(text, style.Add(extra), mergeAttrs(attrs, el))
			return
		}
	}
	switch el.Name() {
	case "img":
		w.emit(string(dom.ObjectReplacement), style.Add(StyleImage), mergeAttrs(attrs, el))
		return
	case "br":
		w.emit("\n", style, attrs)
		return
	}
	inner := style
	if bit := styleForName(el.Name()); bit != StyleNone {
		inner = style.Add(bit)
		if bit == StyleLink {
			attrs = mergeAttrs(attrs, el)
		}
	}
	if dom.IsBlockName(el.Name()) {
		start := w.pos
		w.walk(el, inner, attrs)
		w.paragraphs = append(w.paragraphs, Paragraph{
			Range:    dom.Range{Start: start, End: w.pos},
			Property: ParagraphProperty{Name: el.Name(), Attributes: attrMap(el)},
		})
		return
	}
	w.walk(el, inner, attrs)
}

// emit appends a run of text with the given accumulated style, extending
// the previous span when style and payload are identical.
func (w *importWalk) emit(text string, style Style, attrs map[string]string) {
	if text == "" {
		return
	}
	w.text.WriteString(text)
	end := w.pos + dom.UTF16Length(text)
	if k := len(w.spans) - 1; k >= 0 {
		last := &w.spans[k]
		if last.Range.End == w.pos && last.Style == style && attrsEqual(last.Attributes, attrs) {
			last.Range.End = end
			w.pos = end
			return
		}
	}
	w.spans = append(w.spans, Span{
		Range:      dom.Range{Start: w.pos, End: end},
		Style:      style,
		Attributes: attrs,
	})
	w.pos = end
}

// attrMap copies an element's attributes into a map payload.
func attrMap(el *dom.Node) map[string]string {
	attrs := el.Attributes()
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

// mergeAttrs overlays an element's attributes onto inherited span payload.
func mergeAttrs(attrs map[string]string, el *dom.Node) map[string]string {
	own := attrMap(el)
	if len(attrs) == 0 {
		return own
	}
	m := make(map[string]string, len(attrs)+len(own))
	for k, v := range attrs {
		m[k] = v
	}
	for k, v := range own {
		m[k] = v
	}
	return m
}
