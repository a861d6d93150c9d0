// Package formatter renders styled-text projections for display. The
// console formatter maps style flags to terminal colors and wraps long
// lines to a fixed width.
package formatter

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/editkit/richdom/dom"
	"github.com/editkit/richdom/styledtext"
)

// Console outputs styled text to a console with a fixed width font.
type Console struct {
	colors    map[styledtext.Style]*color.Color
	linewidth int
	ccnt      int // character positions already printed on the current line
}

// NewConsole creates a console formatter.
//
// colors maps style flag combinations to display colors. It may cover just
// a subset of the styles occurring in the texts handled by this formatter;
// unmapped styles fall back to the closest mapped subset, then to plain
// output. Passing nil selects a default palette.
func NewConsole(colors map[styledtext.Style]*color.Color) *Console {
	c := &Console{linewidth: LineWidthFromTerminal()}
	if colors == nil {
		c.colors = makeDefaultPalette()
	} else {
		c.colors = colors
	}
	return c
}

func makeDefaultPalette() map[styledtext.Style]*color.Color {
	return map[styledtext.Style]*color.Color{
		styledtext.StyleNone:          color.New(color.FgWhite),
		styledtext.StyleBold:          color.New(color.Bold),
		styledtext.StyleItalic:        color.New(color.Italic),
		styledtext.StyleUnderline:     color.New(color.Underline),
		styledtext.StyleStrikethrough: color.New(color.CrossedOut),
		styledtext.StyleLink:          color.New(color.FgBlue, color.Underline),
		styledtext.StyleImage:         color.New(color.FgMagenta),
	}
}

// Print outputs a styled text to stdout.
func (c *Console) Print(text *styledtext.Text) error {
	return c.Output(text, os.Stdout)
}

// Output writes the text span by span, coloring each span according to its
// style and breaking lines at the configured width.
func (c *Console) Output(text *styledtext.Text, w io.Writer) error {
	c.ccnt = 0
	for _, span := range text.Spans {
		s := dom.UTF16Substring(text.Content, span.Range.Start, span.Range.End)
		if err := c.styledText(s, span.Style, w); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// styledText outputs one uniformly styled run, wrapping at word boundaries.
// Line positions are counted in UTF-16 code units, consistent with range
// addressing, so multibyte text does not over-count the column.
func (c *Console) styledText(s string, style styledtext.Style, w io.Writer) error {
	col := c.colorFor(style)
	for len(s) > 0 {
		room := c.linewidth - c.ccnt
		if dom.UTF16Length(s) <= room {
			break
		}
		cut := strings.LastIndexByte(s[:byteIndexAt(s, room+1)], ' ')
		if cut < 0 {
			if c.ccnt == 0 { // word longer than a whole line, hard break
				cut = byteIndexAt(s, room)
				if cut == 0 { // a pair wider than the line still advances
					cut = byteIndexAt(s, room+1)
				}
			} else {
				cut = 0
			}
		}
		if err := c.emit(s[:cut], col, w); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
		c.ccnt = 0
		s = strings.TrimLeft(s[cut:], " ")
	}
	if err := c.emit(s, col, w); err != nil {
		return err
	}
	c.ccnt += dom.UTF16Length(s)
	return nil
}

// byteIndexAt maps a UTF-16 offset to a byte index into s, backing off one
// unit when the offset would split a surrogate pair.
func byteIndexAt(s string, offset int) int {
	if offset >= dom.UTF16Length(s) {
		return len(s)
	}
	if b := dom.UTF16OffsetToByteOffset(s, offset); b >= 0 {
		return b
	}
	return dom.UTF16OffsetToByteOffset(s, offset-1)
}

func (c *Console) emit(s string, col *color.Color, w io.Writer) error {
	if s == "" {
		return nil
	}
	if col != nil {
		_, err := col.Fprint(w, s)
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// colorFor resolves the color for a style combination. An exact palette hit
// wins; otherwise the combination is reduced flag by flag until a mapped
// subset is found.
func (c *Console) colorFor(style styledtext.Style) *color.Color {
	if col, ok := c.colors[style]; ok {
		return col
	}
	for _, flag := range []styledtext.Style{
		styledtext.StyleImage,
		styledtext.StyleLink,
		styledtext.StyleBold,
		styledtext.StyleItalic,
		styledtext.StyleUnderline,
		styledtext.StyleStrikethrough,
	} {
		if style.Has(flag) {
			if col, ok := c.colors[flag]; ok {
				return col
			}
		}
	}
	return c.colors[styledtext.StyleNone]
}

// LineWidthFromTerminal checks whether stdout is a terminal and derives a
// target line width from its size, keeping a margin on wide terminals.
// Non-interactive output gets a fixed width of 65.
func LineWidthFromTerminal() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 65
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 65
	}
	switch {
	case w > 65:
		return w - 10
	case w > 30:
		return w - 5
	case w > 10:
		return w
	}
	return 10
}
