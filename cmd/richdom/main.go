// Command richdom parses an HTML fragment, prints its normalized
// serialization and a colored styled-text preview on the terminal.
//
// Usage:
//
//	richdom [-plain] [file]
//
// Without a file argument the fragment is read from stdin.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/editkit/richdom/document"
	"github.com/editkit/richdom/styledtext"
	"github.com/editkit/richdom/styledtext/formatter"
)

func main() {
	plain := flag.Bool("plain", false, "disable colored output")
	flag.Parse()
	gtrace.CoreTracer = gologadapter.New()
	if *plain {
		color.NoColor = true
	}

	markup, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "richdom: %v\n", err)
		os.Exit(1)
	}

	doc := document.New()
	defer doc.Close()
	text, err := doc.SetHTML(markup, styledtext.StyleNone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "richdom: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(doc.HTML())
	fmt.Println()
	console := formatter.NewConsole(nil)
	if err := console.Print(text); err != nil {
		fmt.Fprintf(os.Stderr, "richdom: %v\n", err)
		os.Exit(1)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
