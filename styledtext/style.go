// Package styledtext derives the styled-text projection of a document tree
// and maps style edits back onto the tree. The tree is always the source of
// truth; the styled-text form is a derived, disposable projection.
package styledtext

import (
	"strings"

	"github.com/editkit/richdom/dom"
)

// Style is a set of inline text styles, applicable to runs of characters.
type Style int

const (
	// StyleBold marks bold text (b/strong elements).
	StyleBold Style = 1 << iota
	// StyleItalic marks italic text (i/em elements).
	StyleItalic
	// StyleUnderline marks underlined text (u/ins elements).
	StyleUnderline
	// StyleStrikethrough marks struck-through text (s/strike/del elements).
	StyleStrikethrough
	// StyleLink marks linked text; the link target travels in the span
	// attributes under "href".
	StyleLink
	// StyleImage marks an object-replacement position holding an image.
	StyleImage
)

// StyleNone is the empty style set.
const StyleNone Style = 0

// Add returns the union of two style sets.
func (s Style) Add(other Style) Style { return s | other }

// Minus returns s without the styles in other.
func (s Style) Minus(other Style) Style { return s & ^other }

// Has reports whether every style in other is present in s.
func (s Style) Has(other Style) bool { return s&other == other }

func (s Style) String() string {
	if s == StyleNone {
		return "plain"
	}
	var parts []string
	for _, f := range []struct {
		bit  Style
		name string
	}{
		{StyleBold, "bold"},
		{StyleItalic, "italic"},
		{StyleUnderline, "underline"},
		{StyleStrikethrough, "strikethrough"},
		{StyleLink, "link"},
		{StyleImage, "image"},
	} {
		if s.Has(f.bit) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "+")
}

// Kind identifies one applicable style kind; each kind maps to exactly one
// element-apply routine and one tag-name equivalence set.
type Kind int

const (
	KindBold Kind = iota
	KindItalic
	KindUnderline
	KindStrikethrough
	KindLink
	KindImage
)

var kindTags = map[Kind]string{
	KindBold:          "b",
	KindItalic:        "i",
	KindUnderline:     "u",
	KindStrikethrough: "s",
	KindLink:          "a",
	KindImage:         "img",
}

// TagName returns the canonical element name the kind renders as.
func (k Kind) TagName() string { return kindTags[k] }

// MatchNames returns the set of element names equivalent to the kind.
func (k Kind) MatchNames() []string { return dom.EquivalentNames(k.TagName()) }

// Bit returns the style flag the kind contributes to a span.
func (k Kind) Bit() Style {
	switch k {
	case KindBold:
		return StyleBold
	case KindItalic:
		return StyleItalic
	case KindUnderline:
		return StyleUnderline
	case KindStrikethrough:
		return StyleStrikethrough
	case KindLink:
		return StyleLink
	case KindImage:
		return StyleImage
	}
	return StyleNone
}

func (k Kind) String() string { return kindTags[k] }

// styleForName returns the style flag an element name contributes while
// importing, or StyleNone for names without inline-style meaning.
func styleForName(name string) Style {
	switch dom.CanonicalName(name) {
	case "b":
		return StyleBold
	case "i":
		return StyleItalic
	case "u":
		return StyleUnderline
	case "s":
		return StyleStrikethrough
	case "a":
		return StyleLink
	case "img":
		return StyleImage
	}
	return StyleNone
}

// LineStyle is the rendition of a line-based decoration (underline,
// strikethrough). Only the single line style maps to markup; other
// renditions are tolerated on input and ignored on apply.
type LineStyle int

const (
	LineStyleNone LineStyle = iota
	LineStyleSingle
	LineStyleDouble
	LineStyleThick
	LineStyleDashed
)

// FontTraits carries the font-derived inline traits of an edit surface's
// font attribute.
type FontTraits uint

const (
	// TraitBold requests bold rendition.
	TraitBold FontTraits = 1 << iota
	// TraitItalic requests italic rendition.
	TraitItalic
)
