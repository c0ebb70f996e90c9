package htmltex

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Furniture selects which page furniture (site navigation, banners,
// sidebars and footers) is left out of a conversion. Each level drops
// everything the previous one does.
type Furniture int

const (
	// KeepFurniture converts the whole body.
	KeepFurniture Furniture = iota

	// DropLandmarks drops <nav> and <aside>, and elements with the ARIA
	// role navigation or complementary. <header> and <footer>, and the
	// roles banner and contentinfo, are dropped only at page level: as a
	// child of <body> or of a lone wrapper <div> or <main>.
	DropLandmarks

	// DropNamed also drops elements whose class or id contains a furniture
	// word such as nav, menu, footer or sidebar.
	DropNamed

	// DropLinkLists also drops div, section and list blocks with at least
	// four links that hold most of their text.
	DropLinkLists
)

// furnitureWords must match a whole word of a class or id: "top-nav" is
// furniture, "navigator" is not.
var furnitureWords = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:` + strings.Join([]string{
	"nav", "navbar", "navigation", "menu", "topnav", "sidenav",
	"breadcrumbs?", "site-header", "page-header", "masthead", "banner",
	"footer", "site-footer", "page-footer", "colophon",
	"sidebar", "widget-area", "widget", "aside",
}, "|") + `)(?:[^a-z]|$)`)

// linkStats counts text below an element, in bytes of trimmed text nodes.
type linkStats struct {
	text, linkText, links int
}

func (s linkStats) plus(o linkStats) linkStats {
	return linkStats{s.text + o.text, s.linkText + o.linkText, s.links + o.links}
}

// linkHeavy reports whether links hold more than 60% of the text.
func (s linkStats) linkHeavy() bool {
	return s.links >= 4 && s.text > 0 && s.linkText*10 > s.text*6
}

// furnitureFilter records the elements dropped from one document.
type furnitureFilter struct {
	level   Furniture
	page    map[*html.Node]bool // parents whose element children are page level
	dropped map[*html.Node]bool
}

func newFurnitureFilter(level Furniture, doc *html.Node) *furnitureFilter {
	f := &furnitureFilter{level: level, dropped: make(map[*html.Node]bool)}
	if level <= KeepFurniture {
		return f
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	f.page = map[*html.Node]bool{body: true}
	if w := loneWrapper(body); w != nil {
		f.page[w] = true
	}
	f.mark(body)
	return f
}

// skip reports whether n and its subtree are left out.
func (f *furnitureFilter) skip(n *html.Node) bool {
	return f.dropped[n]
}

// mark walks the subtree of n bottom-up, recording furniture, and returns
// the link statistics of n.
func (f *furnitureFilter) mark(n *html.Node) linkStats {
	if n.Type == html.TextNode {
		return linkStats{text: len(strings.TrimSpace(n.Data))}
	}

	var s linkStats
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s = s.plus(f.mark(c))
	}
	if n.Type != html.ElementNode {
		return s
	}
	if n.Data == "a" {
		s.links++
		s.linkText = s.text
	}
	if f.isFurniture(n, s) {
		f.dropped[n] = true
	}
	return s
}

func (f *furnitureFilter) isFurniture(n *html.Node, s linkStats) bool {
	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		if f.pageLevel(n) {
			return true
		}
	}

	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return true
	case "banner", "contentinfo":
		if f.pageLevel(n) {
			return true
		}
	}

	if f.level >= DropNamed {
		if furnitureWords.MatchString(getAttr(n, "class")) || furnitureWords.MatchString(getAttr(n, "id")) {
			return true
		}
	}

	if f.level >= DropLinkLists {
		switch n.Data {
		case "div", "section", "ul", "ol":
			return s.linkHeavy()
		}
	}
	return false
}

func (f *furnitureFilter) pageLevel(n *html.Node) bool {
	return n.Parent != nil && f.page[n.Parent]
}

// loneWrapper returns the only <div> or <main> child of body when body has
// no other element children apart from scripts and styles.
func loneWrapper(body *html.Node) *html.Node {
	var w *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "script", "style", "noscript", "template":
		case "div", "main":
			if w != nil {
				return nil
			}
			w = c
		default:
			return nil
		}
	}
	return w
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
