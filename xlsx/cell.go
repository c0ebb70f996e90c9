package xlsx

import "strconv"

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeString indicates a string value.
	CellTypeString CellType = iota
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeFormula indicates a formula.
	CellTypeFormula
	// CellTypeError indicates an error value.
	CellTypeError
	// CellTypeEmpty indicates an empty cell.
	CellTypeEmpty
)

var cellTypeNames = [...]string{
	CellTypeString:  "string",
	CellTypeNumber:  "number",
	CellTypeBoolean: "boolean",
	CellTypeFormula: "formula",
	CellTypeError:   "error",
	CellTypeEmpty:   "empty",
}

func (t CellType) String() string {
	if t >= 0 && int(t) < len(cellTypeNames) {
		return cellTypeNames[t]
	}
	return "unknown"
}

// Cell is one worksheet cell.
type Cell struct {
	// Value is the display text. Numbers keep their stored form.
	Value   string
	Type    CellType
	Row     int
	Col     int
	Formula string

	// IsMerged is set for every cell of a merged region. Such cells carry
	// the region's value.
	IsMerged bool
}

// IsEmpty returns true if the cell has no value.
func (c *Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty || c.Value == ""
}

// Number returns the numeric value of a number cell.
func (c *Cell) Number() (float64, bool) {
	if c.Type != CellTypeNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(c.Value, 64)
	return f, err == nil
}

// Sheet represents a worksheet in the workbook.
type Sheet struct {
	Name  string
	Index int
	// Rows is rectangular: every row has MaxCol+1 cells.
	Rows   [][]Cell
	MaxCol int

	// MergedRegions lists the merged areas in sheet order.
	MergedRegions []Range
}

// Cell returns the cell at a zero-based position, or nil outside the
// sheet.
func (s *Sheet) Cell(row, col int) *Cell {
	if row < 0 || row >= len(s.Rows) {
		return nil
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return nil
	}
	return &s.Rows[row][col]
}

// CellByRef returns the cell at an A1-style reference, or nil.
func (s *Sheet) CellByRef(ref string) *Cell {
	r, err := ParseRef(ref)
	if err != nil {
		return nil
	}
	return s.Cell(r.Row, r.Col)
}

// Bounds returns the smallest range holding every non-empty cell. ok is
// false for a sheet without values.
func (s *Sheet) Bounds() (g Range, ok bool) {
	g = Range{From: Ref{Row: len(s.Rows), Col: s.MaxCol + 1}, To: Ref{Row: -1, Col: -1}}
	for i, row := range s.Rows {
		for j := range row {
			if row[j].IsEmpty() {
				continue
			}
			g.From.Row, g.To.Row = min(g.From.Row, i), max(g.To.Row, i)
			g.From.Col, g.To.Col = min(g.From.Col, j), max(g.To.Col, j)
		}
	}
	return g, g.To.Row >= 0
}

// Records returns the cell values inside Bounds, row by row.
func (s *Sheet) Records() [][]string {
	g, ok := s.Bounds()
	if !ok {
		return nil
	}
	out := make([][]string, 0, g.To.Row-g.From.Row+1)
	for i := g.From.Row; i <= g.To.Row; i++ {
		rec := make([]string, g.To.Col-g.From.Col+1)
		for j := range rec {
			rec[j] = s.Rows[i][g.From.Col+j].Value
		}
		out = append(out, rec)
	}
	return out
}

// spreadMerged copies the value of each merged region's top-left cell
// into the rest of the region and flags all of its cells.
func (s *Sheet) spreadMerged() {
	for _, g := range s.MergedRegions {
		root := s.Cell(g.From.Row, g.From.Col)
		if root == nil {
			continue
		}
		root.IsMerged = true
		for i := g.From.Row; i <= g.To.Row; i++ {
			for j := g.From.Col; j <= g.To.Col; j++ {
				if c := s.Cell(i, j); c != nil && c != root {
					c.Value, c.Type, c.IsMerged = root.Value, root.Type, true
				}
			}
		}
	}
}
