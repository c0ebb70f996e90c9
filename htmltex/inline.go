package htmltex

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/texdoc/escape"
)

// inlineCommands maps inline elements to the LaTeX command wrapping them.
var inlineCommands = map[string]string{
	"b":      `\textbf`,
	"strong": `\textbf`,
	"i":      `\emph`,
	"em":     `\emph`,
	"cite":   `\emph`,
	"u":      `\underline`,
	"code":   `\texttt`,
	"tt":     `\texttt`,
	"kbd":    `\texttt`,
	"samp":   `\texttt`,
	"sup":    `\textsuperscript`,
	"sub":    `\textsubscript`,
}

// inlineTex renders the content of n as a single run of LaTeX.
func inlineTex(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(&b, c)
	}
	return tidy(b.String())
}

// inlineTexDirect is inlineTex without the lists directly below n, used for
// list items whose sub-lists are converted separately.
func inlineTexDirect(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			continue
		}
		writeInline(&b, c)
	}
	return tidy(b.String())
}

func writeInline(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(escape.Escape(collapseSpace(n.Data)))
		return
	case html.ElementNode:
	default:
		return
	}

	if shouldSkipElement(n.Data) {
		return
	}

	switch n.Data {
	case "br":
		b.WriteString("\\newline\n")
		return
	case "img":
		if alt := getAttr(n, "alt"); alt != "" {
			b.WriteString(escape.Escape(alt))
		}
		return
	case "a":
		inner := childrenInline(n)
		href := getAttr(n, "href")
		if href == "" || strings.HasPrefix(href, "#") {
			b.WriteString(inner)
			return
		}
		b.WriteString(`\href{` + escapeURL(href) + `}{` + inner + `}`)
		return
	case "p", "div", "li", "tr", "td", "th", "h1", "h2", "h3", "h4", "h5", "h6":
		// Block content flattened into a run keeps its word boundary.
		b.WriteString(childrenInline(n))
		b.WriteByte(' ')
		return
	}

	if cmd, ok := inlineCommands[n.Data]; ok {
		inner := childrenInline(n)
		if strings.TrimSpace(inner) == "" {
			b.WriteString(inner)
			return
		}
		// Keep surrounding spaces outside the braces.
		lead := inner[:len(inner)-len(strings.TrimLeft(inner, " "))]
		trail := inner[len(strings.TrimRight(inner, " ")):]
		b.WriteString(lead + cmd + "{" + strings.TrimSpace(inner) + "}" + trail)
		return
	}

	b.WriteString(childrenInline(n))
}

func childrenInline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(&b, c)
	}
	return b.String()
}

// collapseSpace replaces every run of whitespace with one space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

// tidy trims the run and collapses the spaces left where elements met.
func tidy(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	s = strings.ReplaceAll(s, " \\newline\n", "\\newline\n")
	s = strings.ReplaceAll(s, "\\newline\n ", "\\newline\n")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), `\newline`))
}

// escapeURL protects the characters hyperref cannot take verbatim in a
// link target.
func escapeURL(u string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `#`, `\#`, `{`, `\{`, `}`, `\}`)
	return r.Replace(u)
}
