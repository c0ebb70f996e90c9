package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// errMissingPart is wrapped when a package part is absent.
var errMissingPart = errors.New("xlsx: missing package part")

// archive indexes the parts of an Open Packaging Conventions ZIP by name.
type archive map[string]*zip.File

func newArchive(zr *zip.Reader) archive {
	a := make(archive, len(zr.File))
	for _, f := range zr.File {
		a[f.Name] = f
	}
	return a
}

// decode unmarshals the named XML part into v.
func (a archive) decode(name string, v any) error {
	f, ok := a[name]
	if !ok {
		return fmt.Errorf("%w: %s", errMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer rc.Close()

	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// sheetPath turns a workbook relationship target into a part name. Sheets
// without a relationship fall back to the conventional name.
func sheetPath(target string, i int) string {
	switch {
	case target == "":
		return fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
	case strings.HasPrefix(target, "/"):
		return target[1:]
	case strings.HasPrefix(target, "xl/"):
		return target
	}
	return path.Join("xl", target)
}

// SpreadsheetML parts, reduced to what carries values and layout.

type workbookPart struct {
	Sheets []struct {
		Name  string `xml:"name,attr"`
		RelID string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

type relationshipsPart struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type sharedStringsPart struct {
	Items []richText `xml:"si"`
}

// richText is a string item: plain text or a list of formatted runs.
type richText struct {
	Text string   `xml:"t"`
	Runs []string `xml:"r>t"`
}

func (t richText) String() string {
	if t.Text != "" {
		return t.Text
	}
	return strings.Join(t.Runs, "")
}

type worksheetPart struct {
	Rows []struct {
		Num   int         `xml:"r,attr"`
		Cells []cellEntry `xml:"c"`
	} `xml:"sheetData>row"`
	Merged []struct {
		Ref string `xml:"ref,attr"`
	} `xml:"mergeCells>mergeCell"`
}

type cellEntry struct {
	Ref     string   `xml:"r,attr"`
	Kind    string   `xml:"t,attr"`
	Value   string   `xml:"v"`
	Formula string   `xml:"f"`
	Inline  richText `xml:"is"`
}

// cell converts the entry found at pos. strs is the shared string table.
func (e cellEntry) cell(pos Ref, strs []string) Cell {
	c := Cell{Row: pos.Row, Col: pos.Col, Formula: e.Formula, Type: CellTypeEmpty}

	switch e.Kind {
	case "s":
		c.Type = CellTypeString
		if i, err := strconv.Atoi(e.Value); err == nil && i >= 0 && i < len(strs) {
			c.Value = strs[i]
		}
	case "str":
		c.Type, c.Value = CellTypeString, e.Value
	case "inlineStr":
		c.Type, c.Value = CellTypeString, e.Inline.String()
	case "b":
		c.Type, c.Value = CellTypeBoolean, "FALSE"
		if e.Value == "1" {
			c.Value = "TRUE"
		}
	case "e":
		c.Type, c.Value = CellTypeError, e.Value
	default:
		switch {
		case e.Value != "":
			c.Type, c.Value = CellTypeNumber, e.Value
		case e.Formula != "":
			c.Type = CellTypeFormula
		}
	}
	return c
}

// sheet lays the worksheet out as a rectangular grid. Rows and cells
// without a reference follow the previous one.
func (ws *worksheetPart) sheet(name string, index int, strs []string) *Sheet {
	type placed struct {
		pos   Ref
		entry cellEntry
	}
	var (
		cells      []placed
		rows, cols int
		next       int
	)
	for _, rw := range ws.Rows {
		row := next
		if rw.Num > 0 {
			row = rw.Num - 1
		}
		next = row + 1

		col := 0
		for _, e := range rw.Cells {
			pos := Ref{Row: row, Col: col}
			if ref, err := ParseRef(e.Ref); err == nil {
				pos.Col = ref.Col
			}
			col = pos.Col + 1
			cells = append(cells, placed{pos, e})
			rows, cols = max(rows, pos.Row+1), max(cols, pos.Col+1)
		}
	}

	s := &Sheet{Name: name, Index: index}
	for _, m := range ws.Merged {
		g, err := ParseRange(m.Ref)
		if err != nil {
			continue
		}
		s.MergedRegions = append(s.MergedRegions, g)
		rows, cols = max(rows, g.To.Row+1), max(cols, g.To.Col+1)
	}

	s.MaxCol = max(cols, 1) - 1
	s.Rows = make([][]Cell, rows)
	for i := range s.Rows {
		s.Rows[i] = make([]Cell, s.MaxCol+1)
		for j := range s.Rows[i] {
			s.Rows[i][j] = Cell{Row: i, Col: j, Type: CellTypeEmpty}
		}
	}
	for _, p := range cells {
		s.Rows[p.pos.Row][p.pos.Col] = p.entry.cell(p.pos, strs)
	}
	s.spreadMerged()
	return s
}
