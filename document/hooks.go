package document

import (
	"github.com/editkit/richdom/dom"
	"github.com/editkit/richdom/styledtext"
)

// Hook extends the conversion pipeline. Hooks run in registration order at
// four fixed points: on the raw input HTML before parsing, on the parsed
// tree before further use, on the tree before serialization, and on the
// serialized string. Element converters override the importer's default
// handling for specific element names.
//
// Embed BaseHook to implement only the capabilities a hook needs.
type Hook interface {
	// PreParseHTML may rewrite the input markup before it is parsed.
	PreParseHTML(markup string) string
	// PostParseTree may rewrite the freshly parsed tree.
	PostParseTree(root *dom.Node)
	// PreSerializeTree may rewrite the tree before serialization.
	PreSerializeTree(root *dom.Node)
	// PostSerializeHTML may rewrite the serialized output markup.
	PostSerializeHTML(markup string) string
	// ElementConverters supplies custom per-element import conversions.
	ElementConverters() map[string]styledtext.Converter
}

// BaseHook is a no-op implementation of Hook, meant for embedding.
type BaseHook struct{}

func (BaseHook) PreParseHTML(markup string) string { return markup }

func (BaseHook) PostParseTree(*dom.Node) {}

func (BaseHook) PreSerializeTree(*dom.Node) {}

func (BaseHook) PostSerializeHTML(markup string) string { return markup }

func (BaseHook) ElementConverters() map[string]styledtext.Converter { return nil }
