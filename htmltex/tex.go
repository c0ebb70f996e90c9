package htmltex

import (
	"fmt"
	"strings"
)

var headingCommands = []string{`\section*`, `\subsection*`, `\subsubsection*`, `\paragraph*`, `\subparagraph*`}

// headingCommand maps an HTML heading level to a sectioning command.
func (r *Reader) headingCommand(level int) string {
	i := level + r.opts.HeadingOffset - 1
	i = max(0, min(i, len(headingCommands)-1))
	return headingCommands[i]
}

// Tex returns the document body as LaTeX. Blocks are separated by a
// blank line; the result ends with a newline unless it is empty.
func (r *Reader) Tex() string {
	blocks := make([]string, 0, len(r.elements))

	for _, elem := range r.elements {
		switch elem.kind {
		case elementHeading:
			blocks = append(blocks, r.headingCommand(elem.level)+"{"+elem.tex+"}")
		case elementParagraph:
			blocks = append(blocks, elem.tex)
		case elementList:
			blocks = append(blocks, listTex(elem.items))
		case elementTable:
			blocks = append(blocks, tableTex(elem.table))
		case elementCode:
			blocks = append(blocks, "\\begin{verbatim}\n"+elem.code+"\n\\end{verbatim}")
		case elementQuote:
			blocks = append(blocks, "\\begin{quote}\n"+elem.tex+"\n\\end{quote}")
		case elementRule:
			blocks = append(blocks, `\noindent\rule{\linewidth}{0.4pt}`)
		}
	}

	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func listEnv(ordered bool) string {
	if ordered {
		return "enumerate"
	}
	return "itemize"
}

// listTex renders flattened list items as nested itemize and enumerate
// environments.
func listTex(items []listItem) string {
	var b strings.Builder
	var open []string

	for _, item := range items {
		for len(open) > item.level+1 {
			b.WriteString("\\end{" + open[len(open)-1] + "}\n")
			open = open[:len(open)-1]
		}
		for len(open) < item.level+1 {
			env := listEnv(item.ordered)
			b.WriteString("\\begin{" + env + "}\n")
			open = append(open, env)
		}
		b.WriteString("\\item " + item.tex + "\n")
	}
	for len(open) > 0 {
		b.WriteString("\\end{" + open[len(open)-1] + "}\n")
		open = open[:len(open)-1]
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// tableTex renders a table as a centred booktabs tabular. Leading rows of
// header cells are set in bold above a mid rule. Column spans become
// \multicolumn cells; row spans are not reproduced.
func tableTex(t *parsedTable) string {
	width := t.width()
	header := t.headerRows()

	var b strings.Builder
	b.WriteString("\\begin{center}\n")
	fmt.Fprintf(&b, "\\begin{tabular}{%s}\n", strings.Repeat("l", width))
	b.WriteString("\\toprule\n")

	for i, row := range t.rows {
		cells := make([]string, 0, len(row))
		used := 0
		for _, c := range row {
			text := c.tex
			if i < header && text != "" {
				text = `\textbf{` + text + `}`
			}
			if c.colSpan > 1 {
				text = fmt.Sprintf(`\multicolumn{%d}{l}{%s}`, c.colSpan, text)
			}
			cells = append(cells, text)
			used += c.colSpan
		}
		for ; used < width; used++ {
			cells = append(cells, "")
		}
		b.WriteString(strings.Join(cells, " & ") + ` \\` + "\n")
		if i == header-1 && header < len(t.rows) {
			b.WriteString("\\midrule\n")
		}
	}

	b.WriteString("\\bottomrule\n")
	b.WriteString("\\end{tabular}\n")
	b.WriteString("\\end{center}")
	return b.String()
}
