package formatter

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/editkit/richdom/html"
	"github.com/editkit/richdom/styledtext"
)

func plainConsole(width int) *Console {
	color.NoColor = true
	c := NewConsole(nil)
	c.linewidth = width
	return c
}

func TestOutputPlain(t *testing.T) {
	root, err := html.Parse("<b>Hello</b> world")
	if err != nil {
		t.Fatal(err)
	}
	text := (&styledtext.Importer{}).Import(root)

	var sb strings.Builder
	if err := plainConsole(65).Output(text, &sb); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "Hello world\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestOutputWrapsAtWidth(t *testing.T) {
	root, err := html.Parse("aaa bbb ccc ddd")
	if err != nil {
		t.Fatal(err)
	}
	text := (&styledtext.Importer{}).Import(root)

	var sb strings.Builder
	if err := plainConsole(7).Output(text, &sb); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "aaa bbb\nccc ddd\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestOutputHardBreaksLongWords(t *testing.T) {
	root, err := html.Parse("abcdefghij")
	if err != nil {
		t.Fatal(err)
	}
	text := (&styledtext.Importer{}).Import(root)

	var sb strings.Builder
	if err := plainConsole(4).Output(text, &sb); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "abcd\nefgh\nij\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestOutputCountsUnitsNotBytes(t *testing.T) {
	// two-byte Greek letters are one column each
	root, err := html.Parse("ααα βββ")
	if err != nil {
		t.Fatal(err)
	}
	text := (&styledtext.Importer{}).Import(root)

	var sb strings.Builder
	if err := plainConsole(4).Output(text, &sb); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "ααα\nβββ\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestOutputHardBreakKeepsSurrogatePairsIntact(t *testing.T) {
	root, err := html.Parse("😀😀😀")
	if err != nil {
		t.Fatal(err)
	}
	text := (&styledtext.Importer{}).Import(root)

	var sb strings.Builder
	if err := plainConsole(3).Output(text, &sb); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "😀\n😀\n😀\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestColorForFallsBackToSubset(t *testing.T) {
	c := NewConsole(map[styledtext.Style]*color.Color{
		styledtext.StyleBold: color.New(color.Bold),
	})
	combined := styledtext.StyleBold.Add(styledtext.StyleItalic)
	if c.colorFor(combined) != c.colors[styledtext.StyleBold] {
		t.Error("expected fallback to the mapped bold subset")
	}
	if c.colorFor(styledtext.StyleItalic) != nil {
		t.Error("expected nil for an unmapped style without fallback")
	}
}
