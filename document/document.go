// Package document is the externally visible façade of the engine. A
// Document owns exactly one tree instance and serializes all access to it
// through a single worker goroutine: writes are fire-and-forget but
// strictly FIFO, reads block until every previously submitted write has
// run. This gives read-your-writes consistency without locking.
package document

import (
	"context"

	"github.com/guiguan/caster"

	"github.com/editkit/richdom/dom"
	"github.com/editkit/richdom/html"
	"github.com/editkit/richdom/styledtext"
)

// Change describes one committed mutation of the document. Subscribers use
// it to learn that a previously derived styled-text projection is stale.
type Change struct {
	Op    string
	Range dom.Range
}

// Document owns one document tree and the worker that guards it.
type Document struct {
	work  chan func()
	done  chan struct{}
	hooks []Hook
	cast  *caster.Caster

	// root, base and tracker are touched only on the worker goroutine
	// after New.
	root    *dom.Node
	base    styledtext.Style
	tracker *changeTracker
}

// Option configures a Document.
type Option func(*Document)

// WithHooks installs conversion hooks, invoked in the given order.
func WithHooks(hooks ...Hook) Option {
	return func(d *Document) { d.hooks = append(d.hooks, hooks...) }
}

// WithBaseStyle sets the initial default style merged into every imported
// span; SetHTML replaces it per load.
func WithBaseStyle(base styledtext.Style) Option {
	return func(d *Document) { d.base = base }
}

// New creates an empty document (a root holding one empty text node) and
// starts its worker.
func New(opts ...Option) *Document {
	d := &Document{
		work:    make(chan func(), 64),
		done:    make(chan struct{}),
		cast:    caster.New(nil),
		tracker: &changeTracker{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.root = dom.NewRoot()
	dom.RegisterChangeCallback(d.root, d.tracker)
	go d.run()
	return d
}

func (d *Document) run() {
	defer close(d.done)
	for f := range d.work {
		f()
	}
}

// Close drains the work queue and stops the worker. The document must not
// be used afterwards.
func (d *Document) Close() {
	close(d.work)
	<-d.done
	dom.ClearChangeCallbacks(d.root)
	d.cast.Close()
}

// Subscribe returns a channel of Change events. The channel closes when ctx
// is cancelled or the document is closed.
func (d *Document) Subscribe(ctx context.Context) chan interface{} {
	if ctx == nil {
		ctx = context.Background()
	}
	ch, _ := d.cast.Sub(ctx, 8)
	return ch
}

// Unsubscribe detaches a channel obtained from Subscribe.
func (d *Document) Unsubscribe(ch chan interface{}) {
	d.cast.Unsub(ch)
}

// SetHTML replaces the document content with the parse of markup and
// returns the fresh styled-text projection, derived with base as the
// default span style. Parsing runs on the calling goroutine; the tree swap
// commits on the worker as a single atomic step visible to all subsequent
// operations. On parse failure the previous tree is kept untouched and an
// error is returned.
func (d *Document) SetHTML(markup string, base styledtext.Style) (*styledtext.Text, error) {
	for _, h := range d.hooks {
		markup = h.PreParseHTML(markup)
	}
	root, err := html.Parse(markup)
	if err != nil {
		tracer().Errorf("document: set html: %v", err)
		return nil, err
	}
	for _, h := range d.hooks {
		h.PostParseTree(root)
	}
	conv := d.converters()
	reply := make(chan *styledtext.Text, 1)
	d.work <- func() {
		dom.ClearChangeCallbacks(d.root)
		d.root = root
		d.base = base
		dom.RegisterChangeCallback(d.root, d.tracker)
		d.cast.Pub(Change{Op: "set-html", Range: dom.Range{Start: 0, End: root.Length()}})
		imp := &styledtext.Importer{Base: d.base, Converters: conv}
		reply <- imp.Import(root)
	}
	return <-reply, nil
}

// HTML serializes the document. The call blocks until every previously
// submitted mutation has run, so the read observes a consistent, fully
// mutated tree.
func (d *Document) HTML() string {
	reply := make(chan string, 1)
	d.work <- func() {
		for _, h := range d.hooks {
			h.PreSerializeTree(d.root)
		}
		out := html.Serialize(d.root)
		for _, h := range d.hooks {
			out = h.PostSerializeHTML(out)
		}
		reply <- out
	}
	return <-reply
}

// StyledText re-derives the styled-text projection of the current tree,
// using the base style of the last load. Blocks like HTML.
func (d *Document) StyledText() *styledtext.Text {
	conv := d.converters()
	reply := make(chan *styledtext.Text, 1)
	d.work <- func() {
		imp := &styledtext.Importer{Base: d.base, Converters: conv}
		reply <- imp.Import(d.root)
	}
	return <-reply
}

// ReplaceCharacters removes the content of r and inserts text, optionally
// inheriting the element ancestry at the range start. Fire-and-forget.
func (d *Document) ReplaceCharacters(r dom.Range, text string, inheritStyle bool) {
	d.submit("replace-characters", r, func() error {
		return dom.ReplaceCharacters(d.root, r, text, inheritStyle)
	})
}

// ApplyStyle applies a trait style kind over r. Fire-and-forget.
func (d *Document) ApplyStyle(kind styledtext.Kind, r dom.Range) {
	d.submit("apply-style", r, func() error {
		return styledtext.ApplyStyle(d.root, r, kind)
	})
}

// RemoveStyle removes a style kind from r. Fire-and-forget.
func (d *Document) RemoveStyle(kind styledtext.Kind, r dom.Range) {
	d.submit("remove-style", r, func() error {
		return styledtext.RemoveStyle(d.root, r, kind)
	})
}

// SetLink wraps r in a link to href. Fire-and-forget; an invalid target
// drops the style for this call.
func (d *Document) SetLink(r dom.Range, href string) {
	d.submit("set-link", r, func() error {
		return styledtext.ApplyLink(d.root, r, href)
	})
}

// RemoveLink removes link wrappers from r. Fire-and-forget.
func (d *Document) RemoveLink(r dom.Range) {
	d.submit("remove-link", r, func() error {
		return styledtext.RemoveStyle(d.root, r, styledtext.KindLink)
	})
}

// InsertImage replaces r with an image element. Fire-and-forget.
func (d *Document) InsertImage(r dom.Range, src, size, alignment string) {
	d.submit("insert-image", r, func() error {
		return styledtext.InsertImage(d.root, r, src, size, alignment)
	})
}

// UpdateImage updates the source and class of the image elements wrapping
// the given ranges. Fire-and-forget.
func (d *Document) UpdateImage(ranges []dom.Range, src, size, alignment string) {
	for _, r := range ranges {
		r := r
		d.submit("update-image", r, func() error {
			return styledtext.UpdateImage(d.root, r, src, size, alignment)
		})
	}
}

// Recognized SetAttributes keys. Unrecognized keys are ignored.
const (
	AttrAttachment    = "attachment"
	AttrFont          = "font"
	AttrLink          = "link"
	AttrStrikethrough = "strikethrough"
	AttrUnderline     = "underline"
)

// ImageAttachment is the payload of the attachment attribute key.
type ImageAttachment struct {
	Src       string
	Size      string
	Alignment string
}

// SetAttributes applies a batch of styled-text attributes over r. Each
// recognized key dispatches to its style routine; a malformed value skips
// that attribute with a log, the rest of the batch still applies.
// Fire-and-forget.
func (d *Document) SetAttributes(r dom.Range, attrs map[string]interface{}) {
	d.submit("set-attributes", r, func() error {
		for key, value := range attrs {
			switch key {
			case AttrAttachment:
				att, ok := value.(ImageAttachment)
				if !ok {
					tracer().Errorf("document: attribute %q: unexpected value of type %T skipped", key, value)
					continue
				}
				if err := styledtext.InsertImage(d.root, r, att.Src, att.Size, att.Alignment); err != nil {
					tracer().Errorf("document: attribute %q: %v", key, err)
				}
			case AttrFont:
				traits, ok := value.(styledtext.FontTraits)
				if !ok {
					tracer().Errorf("document: attribute %q: unexpected value of type %T skipped", key, value)
					continue
				}
				if err := styledtext.ApplyFontTraits(d.root, r, traits); err != nil {
					tracer().Errorf("document: attribute %q: %v", key, err)
				}
			case AttrLink:
				href, ok := value.(string)
				if !ok {
					tracer().Errorf("document: attribute %q: unexpected value of type %T skipped", key, value)
					continue
				}
				if err := styledtext.ApplyLink(d.root, r, href); err != nil {
					tracer().Errorf("document: attribute %q: %v", key, err)
				}
			case AttrStrikethrough:
				line, ok := value.(styledtext.LineStyle)
				if !ok {
					tracer().Errorf("document: attribute %q: unexpected value of type %T skipped", key, value)
					continue
				}
				if err := styledtext.ApplyStrikethrough(d.root, r, line); err != nil {
					tracer().Errorf("document: attribute %q: %v", key, err)
				}
			case AttrUnderline:
				line, ok := value.(styledtext.LineStyle)
				if !ok {
					tracer().Errorf("document: attribute %q: unexpected value of type %T skipped", key, value)
					continue
				}
				if err := styledtext.ApplyUnderline(d.root, r, line); err != nil {
					tracer().Errorf("document: attribute %q: %v", key, err)
				}
			default:
				tracer().Infof("document: unrecognized attribute key %q ignored", key)
			}
		}
		return nil
	})
}

// submit queues a mutation. The worker runs queued work strictly in FIFO
// order, so operations submitted in program order execute in that order.
func (d *Document) submit(op string, r dom.Range, f func() error) {
	d.work <- func() {
		d.tracker.reset()
		if err := f(); err != nil {
			tracer().Errorf("document: %s %s: %v", op, r, err)
			return
		}
		if d.tracker.dirty() {
			d.cast.Pub(Change{Op: op, Range: r})
		}
	}
}

// converters collects the element converters of the hook set.
func (d *Document) converters() map[string]styledtext.Converter {
	var conv map[string]styledtext.Converter
	for _, h := range d.hooks {
		for name, c := range h.ElementConverters() {
			if conv == nil {
				conv = make(map[string]styledtext.Converter)
			}
			conv[name] = c
		}
	}
	return conv
}

// changeTracker flags whether a queued operation touched the tree. Accessed
// only on the worker goroutine.
type changeTracker struct {
	changed bool
}

func (c *changeTracker) reset()      { c.changed = false }
func (c *changeTracker) dirty() bool { return c.changed }

func (c *changeTracker) OnChildListChange(*dom.Node) { c.changed = true }

func (c *changeTracker) OnAttributeChange(*dom.Node, string, string) { c.changed = true }

func (c *changeTracker) OnTextChange(*dom.Node, string) { c.changed = true }
