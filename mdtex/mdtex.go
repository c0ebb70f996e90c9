// Package mdtex converts Markdown into LaTeX body text.
//
// Markdown is rendered to HTML with blackfriday and the HTML is converted
// by [htmltex], so both sources produce the same markup for the same
// structure.
package mdtex

import (
	"bytes"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/tsawler/texdoc/htmltex"
)

// Extensions are the Markdown extensions enabled by [Convert]: tables,
// fenced code, autolinks and the other blackfriday common extensions.
const Extensions = blackfriday.CommonExtensions

// Options configures a conversion.
type Options struct {
	// HeadingOffset is passed to [htmltex.Options.HeadingOffset].
	HeadingOffset int
	// Extensions overrides the default Markdown extensions when non-zero.
	Extensions blackfriday.Extensions
}

// DefaultOptions returns the options used by [Convert].
func DefaultOptions() Options {
	return Options{HeadingOffset: 1, Extensions: Extensions}
}

// Convert renders md as LaTeX using [DefaultOptions].
func Convert(md []byte) string {
	return ConvertWithOptions(md, DefaultOptions())
}

// ConvertWithOptions renders md as LaTeX.
func ConvertWithOptions(md []byte, opts Options) string {
	ext := opts.Extensions
	if ext == 0 {
		ext = Extensions
	}
	out := blackfriday.Run(md, blackfriday.WithExtensions(ext))

	r, err := htmltex.NewReader(bytes.NewReader(out), htmltex.Options{
		Furniture:     htmltex.KeepFurniture,
		HeadingOffset: opts.HeadingOffset,
	})
	if err != nil {
		// Parsing an in-memory buffer only fails on read errors.
		return ""
	}
	return r.Tex()
}

// Heading is one Markdown heading.
type Heading struct {
	Level int
	Title string
}

// Headings lists the headings of md in document order.
func Headings(md []byte) []Heading {
	ast := blackfriday.New(blackfriday.WithExtensions(Extensions)).Parse(md)

	var out []Heading
	ast.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && node.Type == blackfriday.Heading {
			out = append(out, Heading{Level: node.Level, Title: nodeText(node)})
			return blackfriday.SkipChildren
		}
		return blackfriday.GoToNext
	})
	return out
}

// nodeText concatenates the text and code spans below node.
func nodeText(node *blackfriday.Node) string {
	var b strings.Builder
	node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && (n.Type == blackfriday.Text || n.Type == blackfriday.Code) {
			b.Write(n.Literal)
		}
		return blackfriday.GoToNext
	})
	return strings.TrimSpace(b.String())
}
