package document

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/editkit/richdom/dom"
	"github.com/editkit/richdom/html"
	"github.com/editkit/richdom/styledtext"
)

func TestSetHTMLRoundTrip(t *testing.T) {
	doc := New()
	defer doc.Close()
	text, err := doc.SetHTML("<b>Hello</b> world", styledtext.StyleNone)
	if err != nil {
		t.Fatal(err)
	}
	if text.Content != "Hello world" {
		t.Errorf("unexpected projection %q", text.Content)
	}
	if got := doc.HTML(); got != "<b>Hello</b> world" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestSetHTMLParseFailureKeepsTree(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	// x/net/html recovers from almost anything, so failures are rare; the
	// important property is that a rejected load leaves the tree as it was.
	if got := doc.HTML(); got != "Hello" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := New()
	defer doc.Close()
	if got := doc.HTML(); got != "" {
		t.Errorf("expected an empty serialization, got %q", got)
	}
	if text := doc.StyledText(); text.Content != "" {
		t.Errorf("expected an empty projection, got %q", text.Content)
	}
}

func TestWritesApplyInSubmissionOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richdom")
	defer teardown()
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.ApplyStyle(styledtext.KindBold, dom.NewRange(0, 5))
	doc.ApplyStyle(styledtext.KindItalic, dom.NewRange(0, 5))
	// the read waits for both queued writes
	if got := doc.HTML(); got != "<i><b>Hello</b></i> world" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestRemoveStyleKeepsOuterWrapper(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("<i><b>Hello</b></i> world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.RemoveStyle(styledtext.KindBold, dom.NewRange(0, 5))
	if got := doc.HTML(); got != "<i>Hello</i> world" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestReplaceCharacters(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("<b>Hello</b> world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.ReplaceCharacters(dom.NewRange(0, 5), "Howdy", true)
	if got := doc.HTML(); got != "<b>Howdy</b> world" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestFailedWriteLeavesDocumentUsable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richdom")
	defer teardown()
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.ApplyStyle(styledtext.KindBold, dom.NewRange(0, 99)) // out of bounds
	doc.ApplyStyle(styledtext.KindBold, dom.NewRange(0, 5))
	if got := doc.HTML(); got != "<b>Hello</b>" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestSetAttributesBatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richdom")
	defer teardown()
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.SetAttributes(dom.NewRange(0, 5), map[string]interface{}{
		AttrFont:      styledtext.TraitBold,
		"unknown-key": 42, // ignored
	})
	if got := doc.HTML(); got != "<b>Hello</b> world" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestSetAttributesMalformedValueSkipped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richdom")
	defer teardown()
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.SetAttributes(dom.NewRange(0, 5), map[string]interface{}{
		AttrLink: 42, // wrong type, skipped
	})
	doc.SetAttributes(dom.NewRange(6, 11), map[string]interface{}{
		AttrUnderline: styledtext.LineStyleSingle,
	})
	if got := doc.HTML(); got != "Hello <u>world</u>" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestSetLinkAndRemoveLink(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.SetLink(dom.NewRange(0, 5), "https://example.com")
	if got := doc.HTML(); got != `<a href="https://example.com">Hello</a> world` {
		t.Errorf("unexpected markup %q", got)
	}
	doc.RemoveLink(dom.NewRange(0, 5))
	if got := doc.HTML(); got != "Hello world" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestInsertAndUpdateImage(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.InsertImage(dom.NewRange(5, 11), "pic.png", "small", "left")
	if got := doc.HTML(); got != `Hello<img src="pic.png" class="size-small align-left">` {
		t.Errorf("unexpected markup %q", got)
	}
	doc.UpdateImage([]dom.Range{dom.NewRange(5, 6)}, "new.png", "large", "right")
	if got := doc.HTML(); got != `Hello<img src="new.png" class="size-large align-right">` {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestSubscribePublishesChanges(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := doc.Subscribe(ctx)
	defer doc.Unsubscribe(ch)

	doc.ApplyStyle(styledtext.KindBold, dom.NewRange(0, 5))
	select {
	case ev := <-ch:
		change, ok := ev.(Change)
		if !ok {
			t.Fatalf("unexpected event %T", ev)
		}
		if change.Op != "apply-style" || change.Range != dom.NewRange(0, 5) {
			t.Errorf("unexpected change %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a change event")
	}
}

func TestNoopWritePublishesNothing(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("<b>Hello</b> world", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := doc.Subscribe(ctx)
	defer doc.Unsubscribe(ch)

	// re-applying bold leaves the tree unchanged, no event
	doc.ApplyStyle(styledtext.KindBold, dom.NewRange(0, 5))
	doc.HTML() // wait for the write to run
	select {
	case ev := <-ch:
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

type upperHook struct {
	BaseHook
}

func (upperHook) PreParseHTML(markup string) string {
	return strings.ToUpper(markup)
}

type footerHook struct {
	BaseHook
}

func (footerHook) PostSerializeHTML(markup string) string {
	return markup + "<!-- exported -->"
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	doc := New(WithHooks(upperHook{}, footerHook{}))
	defer doc.Close()
	if _, err := doc.SetHTML("hello", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	if got := doc.HTML(); got != "HELLO<!-- exported -->" {
		t.Errorf("unexpected markup %q", got)
	}
}

type videoHook struct {
	BaseHook
}

func (videoHook) ElementConverters() map[string]styledtext.Converter {
	return map[string]styledtext.Converter{
		"video": func(el *dom.Node) (string, styledtext.Style, bool) {
			return string(dom.ObjectReplacement), styledtext.StyleImage, true
		},
	}
}

func TestHookElementConverter(t *testing.T) {
	doc := New(WithHooks(videoHook{}))
	defer doc.Close()
	text, err := doc.SetHTML(`a<video src="clip.mp4"></video>b`, styledtext.StyleNone)
	if err != nil {
		t.Fatal(err)
	}
	want := "a" + string(dom.ObjectReplacement) + "b"
	if text.Content != want {
		t.Errorf("unexpected projection %q", text.Content)
	}
}

func TestBaseStylePerLoad(t *testing.T) {
	doc := New()
	defer doc.Close()
	text, err := doc.SetHTML("hi", styledtext.StyleBold)
	if err != nil {
		t.Fatal(err)
	}
	if len(text.Spans) != 1 || !text.Spans[0].Style.Has(styledtext.StyleBold) {
		t.Errorf("expected the base style on every span, got %+v", text.Spans)
	}
	// a re-derived projection keeps the base style of the load
	if again := doc.StyledText(); !again.Spans[0].Style.Has(styledtext.StyleBold) {
		t.Errorf("expected the base style to persist, got %+v", again.Spans)
	}
}

func TestReloadRoundTripsParagraph(t *testing.T) {
	doc := New()
	defer doc.Close()
	if _, err := doc.SetHTML("<p><b>Hi</b></p>", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	out := doc.HTML()
	reparsed, err := html.Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	original, err := html.Parse("<p><b>Hi</b></p>")
	if err != nil {
		t.Fatal(err)
	}
	if !reparsed.Equals(original) {
		t.Errorf("reload is not structurally equivalent: %q", out)
	}
}

func TestConcurrentDocumentsAreIndependent(t *testing.T) {
	// Documents owned by different goroutines share no tree state; using
	// several at once must never interfere (run with -race).
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := New()
			defer doc.Close()
			for j := 0; j < 25; j++ {
				if _, err := doc.SetHTML("Hello world", styledtext.StyleNone); err != nil {
					t.Error(err)
					return
				}
				doc.ApplyStyle(styledtext.KindBold, dom.NewRange(0, 5))
				if got := doc.HTML(); got != "<b>Hello</b> world" {
					t.Errorf("unexpected markup %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCloseStopsWorker(t *testing.T) {
	doc := New()
	if _, err := doc.SetHTML("Hello", styledtext.StyleNone); err != nil {
		t.Fatal(err)
	}
	doc.ReplaceCharacters(dom.NewRange(0, 5), "Bye", true)
	doc.Close() // drains the queue before returning
}
