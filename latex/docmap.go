package latex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const mapPreviewLen = 20

// WriteMap writes an indented outline of the document tree, one entry per
// part with its most useful properties.
func (d *Document) WriteMap(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, p := range d.parts {
		writeMapEntry(bw, p, i+1, 0)
	}
	return bw.Flush()
}

func writeMapEntry(w *bufio.Writer, p Part, n, depth int) {
	indent := strings.Repeat("    ", depth)
	field := func(name string, value any) {
		fmt.Fprintf(w, "%s    | %s: %v\n", indent, name, value)
	}

	var children []Part
	switch v := p.(type) {
	case *Section:
		fmt.Fprintf(w, "%s%d Section\n", indent, n)
		field("type", sectionCommands[v.level])
		field("title", v.title)
		children = v.children
	case *Environment:
		fmt.Fprintf(w, "%s%d Environment\n", indent, n)
		for _, k := range v.kinds {
			field("wrap", k)
		}
		children = v.children
	case *Container:
		fmt.Fprintf(w, "%s%d Container\n", indent, n)
		children = v.children
	case *Columns:
		fmt.Fprintf(w, "%s%d Columns\n", indent, n)
		field("columns", len(v.slots))
		children = v.childParts()
	case *Table:
		fmt.Fprintf(w, "%s%d Table\n", indent, n)
		field("type", v.kind)
		field("caption", v.caption)
		field("label", v.label)
		if v.data != nil {
			rows, cols := v.data.Shape()
			field("data", fmt.Sprintf("%dx%d", rows, cols))
		}
	case *Figure:
		fmt.Fprintf(w, "%s%d Figure\n", indent, n)
		field("caption", v.caption)
		field("label", v.label)
		field("figure", v.path)
	case *PageRange:
		fmt.Fprintf(w, "%s%d Pages\n", indent, n)
		field("pages", len(v.sources))
		for _, src := range v.sources {
			field("source", src)
		}
	case *PageStyle:
		fmt.Fprintf(w, "%s%d PageStyle\n", indent, n)
		field("lhead", v.opts.LeftHeader)
		field("rhead", v.opts.RightHeader)
		field("lfoot", v.opts.LeftFooter)
		field("rfoot", v.opts.RightFooter)
	case *Text:
		fmt.Fprintf(w, "%s%d Text\n", indent, n)
		field("contains", preview(v.Tex()))
	default:
		fmt.Fprintf(w, "%s%d Part\n", indent, n)
		field("contains", preview(p.Tex()))
	}

	for i, c := range children {
		writeMapEntry(w, c, i+1, depth+1)
	}
}

func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	r := []rune(s)
	if len(r) > mapPreviewLen {
		r = r[:mapPreviewLen]
	}
	return string(r) + "..."
}
