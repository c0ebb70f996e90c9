package htmltex

// element is one block of converted content. Text fields hold LaTeX that
// is already escaped; code holds the raw text of a verbatim block.
type element struct {
	kind  elementKind
	tex   string
	level int        // headings (1-6)
	items []listItem // lists
	table *parsedTable
	code  string
}

type elementKind int

const (
	elementParagraph elementKind = iota
	elementHeading
	elementList
	elementTable
	elementCode
	elementQuote
	elementRule
)

// listItem is one entry of a possibly nested list. Level 0 is the
// outermost list.
type listItem struct {
	tex     string
	level   int
	ordered bool
}

// parsedTable is a table extracted from HTML.
type parsedTable struct {
	rows [][]tableCell
}

type tableCell struct {
	tex      string
	isHeader bool
	rowSpan  int
	colSpan  int
}

// width returns the number of grid columns, counting spans.
func (t *parsedTable) width() int {
	w := 0
	for _, row := range t.rows {
		n := 0
		for _, c := range row {
			n += c.colSpan
		}
		w = max(w, n)
	}
	return w
}

// headerRows returns the number of leading rows made only of header cells.
func (t *parsedTable) headerRows() int {
	n := 0
	for _, row := range t.rows {
		for _, c := range row {
			if !c.isHeader {
				return n
			}
		}
		n++
	}
	return n
}
