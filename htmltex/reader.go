// Package htmltex converts HTML into LaTeX body text.
//
// The converter keeps document structure: headings, paragraphs, nested
// lists, tables, code blocks, block quotes and horizontal rules. Inline
// markup (bold, emphasis, code, links, line breaks) is carried over; all
// text is escaped. Scripts, styles and, depending on [Options.Furniture],
// navigation and other page furniture are dropped.
//
//	tex, err := htmltex.Convert(strings.NewReader(`<h2>Notes</h2><p>50% <b>done</b></p>`))
//	// \subsubsection*{Notes}
//	//
//	// 50\% \textbf{done}
//
// The output is meant to be placed inside a section, so headings start one
// level below \section by default. See [Options.HeadingOffset].
package htmltex

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Options configures a conversion.
type Options struct {
	// Furniture selects which navigation and boilerplate is dropped.
	Furniture Furniture
	// HeadingOffset is added to the HTML heading level before it is mapped
	// to a sectioning command: 1 is \section, 2 \subsection, 3
	// \subsubsection, 4 \paragraph and anything deeper \subparagraph.
	HeadingOffset int
}

// DefaultOptions returns the options used by [Convert].
func DefaultOptions() Options {
	return Options{
		Furniture:     DropNamed,
		HeadingOffset: 1,
	}
}

// Reader holds a parsed HTML document.
type Reader struct {
	title    string
	metadata map[string]string
	elements []element
	opts     Options
}

// Convert reads HTML from r and returns it as LaTeX using [DefaultOptions].
func Convert(r io.Reader) (string, error) {
	rd, err := NewReader(r, DefaultOptions())
	if err != nil {
		return "", err
	}
	return rd.Tex(), nil
}

// Open parses an HTML file.
func Open(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return NewReader(f, opts)
}

// NewReader parses HTML from r.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	rd := &Reader{metadata: make(map[string]string), opts: opts}
	if head := findElement(doc, "head"); head != nil {
		rd.readHead(head)
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	w := &blockWalker{filter: newFurnitureFilter(opts.Furniture, doc)}
	w.walk(body)
	rd.elements = w.out

	return rd, nil
}

// Title returns the content of the <title> element.
func (r *Reader) Title() string {
	return r.title
}

// Metadata returns the named <meta> entries of the document head.
func (r *Reader) Metadata() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// readHead records the title and the <meta> entries that carry both a name
// (or Open Graph property) and content.
func (r *Reader) readHead(head *html.Node) {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			r.title = textOf(c)
		case "meta":
			key := getAttr(c, "name")
			if key == "" {
				key = getAttr(c, "property")
			}
			if v := getAttr(c, "content"); key != "" && v != "" {
				r.metadata[key] = v
			}
		}
	}
}

// blockWalker collects the block elements below a node in document order.
type blockWalker struct {
	filter *furnitureFilter
	out    []element
}

// containers hold either inline content, which becomes one paragraph, or
// further blocks, which are walked.
var containers = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"nav": true, "aside": true, "header": true, "footer": true,
}

func (w *blockWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) || w.filter.skip(n) {
			return
		}
		if w.block(n) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// block converts n when it is a block and reports whether it was consumed.
func (w *blockWalker) block(n *html.Node) bool {
	tag := n.Data
	switch {
	case len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6':
		w.text(elementHeading, inlineTex(n), int(tag[1]-'0'))
	case containers[tag]:
		if hasBlockChild(n) {
			return false
		}
		w.text(elementParagraph, inlineTex(n), 0)
	case tag == "ul" || tag == "ol":
		if items := w.list(n, 0, nil); len(items) > 0 {
			w.out = append(w.out, element{kind: elementList, items: items})
		}
	case tag == "table":
		if t := w.table(n); len(t.rows) > 0 {
			w.out = append(w.out, element{kind: elementTable, table: t})
		}
	case tag == "pre" || tag == "code":
		if code := codeText(n); code != "" {
			w.out = append(w.out, element{kind: elementCode, code: code})
		}
	case tag == "blockquote":
		w.text(elementQuote, inlineTex(n), 0)
	case tag == "hr":
		w.out = append(w.out, element{kind: elementRule})
	case tag == "li" || tag == "br":
		// Stray items and breaks between blocks carry nothing.
	default:
		return false
	}
	return true
}

// text appends a text element unless tex is empty.
func (w *blockWalker) text(kind elementKind, tex string, level int) {
	if tex != "" {
		w.out = append(w.out, element{kind: kind, tex: tex, level: level})
	}
}

// list flattens the list n, and the lists nested in its items, into out.
func (w *blockWalker) list(n *html.Node, level int, out []listItem) []listItem {
	ordered := n.Data == "ol"
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || w.filter.skip(c) {
			continue
		}
		switch c.Data {
		case "li":
			out = append(out, listItem{tex: inlineTexDirect(c), level: level, ordered: ordered})
			for sub := c.FirstChild; sub != nil; sub = sub.NextSibling {
				if sub.Type == html.ElementNode && (sub.Data == "ul" || sub.Data == "ol") {
					out = w.list(sub, level+1, out)
				}
			}
		case "ul", "ol":
			out = w.list(c, level+1, out)
		}
	}
	return out
}

// table collects the rows of n. Cells of <thead> rows, and <th> cells
// anywhere, are header cells.
func (w *blockWalker) table(n *html.Node) *parsedTable {
	t := &parsedTable{}
	var rows func(*html.Node, bool)
	rows = func(parent *html.Node, header bool) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead":
				rows(c, true)
			case "tbody", "tfoot":
				rows(c, false)
			case "tr":
				if row := tableRow(c, header); len(row) > 0 {
					t.rows = append(t.rows, row)
				}
			}
		}
	}
	rows(n, false)
	return t
}

func tableRow(tr *html.Node, header bool) []tableCell {
	var row []tableCell
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		row = append(row, tableCell{
			tex:      inlineTex(c),
			isHeader: header || c.Data == "th",
			rowSpan:  span(c, "rowspan"),
			colSpan:  span(c, "colspan"),
		})
	}
	return row
}

// span reads a rowspan or colspan attribute. Missing and malformed values
// are 1.
func span(n *html.Node, key string) int {
	v := 0
	for _, r := range strings.TrimSpace(getAttr(n, key)) {
		if r < '0' || r > '9' || v > 1000 {
			return 1
		}
		v = v*10 + int(r-'0')
	}
	return max(v, 1)
}

// shouldSkipElement reports whether an element never carries body text.
func shouldSkipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed", "head":
		return true
	}
	return false
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "p", "ul", "ol", "table", "h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "pre", "article", "section", "hr":
			return true
		}
	}
	return false
}

// findElement returns the first element named tag in document order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// rawText appends the text below n to b, with <br> as a newline.
func rawText(b *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
	case n.Type != html.ElementNode:
	case shouldSkipElement(n.Data):
		return
	case n.Data == "br":
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rawText(b, c)
	}
}

// textOf returns the trimmed text below n.
func textOf(n *html.Node) string {
	var b strings.Builder
	rawText(&b, n)
	return strings.TrimSpace(b.String())
}

// codeText returns the text of a code block with surrounding blank lines
// removed and inner whitespace kept.
func codeText(n *html.Node) string {
	var b strings.Builder
	rawText(&b, n)
	return strings.TrimLeft(strings.TrimRight(b.String(), " \t\r\n"), "\r\n")
}
