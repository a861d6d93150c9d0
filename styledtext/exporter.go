package styledtext

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/editkit/richdom/dom"
)

// The exporter is the reverse mapping of the importer: it mutates the
// document tree so that re-importing the edited range reproduces the given
// style attributes. Each style kind maps to exactly one element-apply
// routine; removals map to unwrapping the kind's equivalence-name set.

// ApplyFontTraits wraps r in the elements implied by the font traits
// (bold and/or italic).
func ApplyFontTraits(root *dom.Node, r dom.Range, traits FontTraits) error {
	if traits&TraitBold != 0 {
		if err := dom.WrapChildren(root, r, dom.NewDescriptor("b")); err != nil {
			return err
		}
	}
	if traits&TraitItalic != 0 {
		if err := dom.WrapChildren(root, r, dom.NewDescriptor("i")); err != nil {
			return err
		}
	}
	return nil
}

// ApplyStrikethrough wraps r in a strikethrough element. Only the single
// line style is representable; any other rendition is silently ignored, so
// externally authored styling cannot fail the batch.
func ApplyStrikethrough(root *dom.Node, r dom.Range, line LineStyle) error {
	if line != LineStyleSingle {
		tracer().Infof("styledtext: unsupported strikethrough rendition %d ignored", line)
		return nil
	}
	return dom.WrapChildren(root, r, dom.NewDescriptor("s"))
}

// ApplyUnderline wraps r in an underline element. Only the single line
// style is representable; other renditions are silently ignored.
func ApplyUnderline(root *dom.Node, r dom.Range, line LineStyle) error {
	if line != LineStyleSingle {
		tracer().Infof("styledtext: unsupported underline rendition %d ignored", line)
		return nil
	}
	return dom.WrapChildren(root, r, dom.NewDescriptor("u"))
}

// ApplyLink wraps r in an anchor pointing at href. The target must parse as
// an absolute URL; an invalid target rejects the style for this call.
func ApplyLink(root *dom.Node, r dom.Range, href string) error {
	if _, err := url.ParseRequestURI(href); err != nil {
		tracer().Errorf("styledtext: dropping link style, invalid target %q: %v", href, err)
		return fmt.Errorf("invalid link target %q: %w", href, err)
	}
	desc := dom.NewDescriptor("a", dom.Attribute{Key: "href", Value: href})
	return dom.WrapChildren(root, r, desc)
}

// ApplyStyle applies a simple trait kind over r. Link and image kinds carry
// payload and have dedicated routines.
func ApplyStyle(root *dom.Node, r dom.Range, kind Kind) error {
	switch kind {
	case KindBold, KindItalic:
		return dom.WrapChildren(root, r, dom.NewDescriptor(kind.TagName()))
	case KindUnderline:
		return ApplyUnderline(root, r, LineStyleSingle)
	case KindStrikethrough:
		return ApplyStrikethrough(root, r, LineStyleSingle)
	default:
		return fmt.Errorf("style kind %s needs a payload-specific apply routine", kind)
	}
}

// RemoveStyle unwraps all elements of the kind's equivalence set from r.
// Removing a style that is not applied is a defined no-op.
func RemoveStyle(root *dom.Node, r dom.Range, kind Kind) error {
	return dom.Unwrap(root, r, kind.MatchNames())
}

// InsertImage replaces r with an image element referencing src. size and
// alignment, when set, are rendered into the element's class attribute.
func InsertImage(root *dom.Node, r dom.Range, src, size, alignment string) error {
	attrs := []dom.Attribute{{Key: "src", Value: src}}
	if class := imageClass(size, alignment); class != "" {
		attrs = append(attrs, dom.Attribute{Key: "class", Value: class})
	}
	desc := dom.NewDescriptor("img", attrs...)
	return dom.ReplaceWithElement(root, r, desc)
}

// UpdateImage locates the image element wrapping r and updates its source
// and class attributes in place.
func UpdateImage(root *dom.Node, r dom.Range, src, size, alignment string) error {
	el := dom.LowestElementNodeWrapping(root, r)
	if el == nil || el.Name() != "img" {
		tracer().Errorf("styledtext: no image element wraps range %s", r)
		return dom.ErrNotFound(fmt.Sprintf("no image element wraps range %s", r))
	}
	el.UpdateAttribute("src", src)
	if class := imageClass(size, alignment); class != "" {
		el.UpdateAttribute("class", class)
	}
	return nil
}

func imageClass(size, alignment string) string {
	var parts []string
	if size != "" {
		parts = append(parts, "size-"+size)
	}
	if alignment != "" {
		parts = append(parts, "align-"+alignment)
	}
	return strings.Join(parts, " ")
}
