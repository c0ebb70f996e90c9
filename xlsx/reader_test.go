package xlsx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/texdoc/frame"
)

type testSheet struct {
	name string
	body string // contents of <sheetData>, plus any trailing elements
}

// buildXLSX assembles a minimal workbook in memory.
func buildXLSX(t *testing.T, sheets []testSheet, sharedStrings []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	writeZipFile(t, zw, "[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`)

	var rels, wb strings.Builder
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	wb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets>`)
	for i, s := range sheets {
		fmt.Fprintf(&rels, "\n  <Relationship Id=\"rId%d\" Target=\"worksheets/sheet%d.xml\"/>", i+1, i+1)
		fmt.Fprintf(&wb, "\n  <sheet name=%q sheetId=\"%d\" r:id=\"rId%d\"/>", s.name, i+1, i+1)
	}
	rels.WriteString("\n</Relationships>")
	wb.WriteString("\n</sheets>\n</workbook>")
	writeZipFile(t, zw, "xl/_rels/workbook.xml.rels", rels.String())
	writeZipFile(t, zw, "xl/workbook.xml", wb.String())

	var ss strings.Builder
	ss.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, s := range sharedStrings {
		ss.WriteString("\n  <si><t>" + s + "</t></si>")
	}
	ss.WriteString("\n</sst>")
	writeZipFile(t, zw, "xl/sharedStrings.xml", ss.String())

	for i, s := range sheets {
		writeZipFile(t, zw, fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1),
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
`+s.body+`
</worksheet>`)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

func writeZipFile(t *testing.T, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("Failed to create %s in zip: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func openXLSX(t *testing.T, sheets []testSheet, sharedStrings []string) *Reader {
	t.Helper()
	data := buildXLSX(t, sheets, sharedStrings)
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	return r
}

const salesSheet = `<sheetData>
  <row r="1">
    <c r="B1" t="s"><v>0</v></c>
    <c r="D1" t="s"><v>1</v></c>
  </row>
  <row r="2">
    <c r="A2" t="s"><v>2</v></c>
    <c r="B2" t="s"><v>3</v></c>
    <c r="C2" t="s"><v>4</v></c>
    <c r="D2" t="s"><v>3</v></c>
  </row>
  <row r="3">
    <c r="A3" t="s"><v>5</v></c>
    <c r="B3"><v>1.5</v></c>
    <c r="C3"><v>2</v></c>
    <c r="D3" t="inlineStr"><is><t>n/a</t></is></c>
  </row>
</sheetData>
<mergeCells count="1">
  <mergeCell ref="B1:C1"/>
</mergeCells>`

var salesStrings = []string{"North", "South", "product", "Q1", "Q2", "widgets"}

func TestOpen(t *testing.T) {
	data := buildXLSX(t, []testSheet{{"Sheet1", salesSheet}}, salesStrings)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if r.SheetCount() != 1 {
		t.Errorf("SheetCount() = %d, want 1", r.SheetCount())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Open() of missing file should fail")
	}

	junk := []byte("not a zip")
	if _, err := NewReader(bytes.NewReader(junk), int64(len(junk))); err == nil {
		t.Error("NewReader() of non-ZIP should fail")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	writeZipFile(t, zw, "[Content_Types].xml", "<Types/>")
	zw.Close()
	if _, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err == nil ||
		!strings.Contains(err.Error(), "xl/workbook.xml") {
		t.Errorf("missing workbook error = %v", err)
	}

	empty := buildXLSX(t, nil, nil)
	if _, err := NewReader(bytes.NewReader(empty), int64(len(empty))); !errors.Is(err, ErrNoSheets) {
		t.Errorf("no sheets error = %v, want ErrNoSheets", err)
	}
}

func TestReader_Sheets(t *testing.T) {
	r := openXLSX(t, []testSheet{
		{"First", `<sheetData><row r="1"><c r="A1"><v>1</v></c></row></sheetData>`},
		{"Second", `<sheetData><row r="1"><c r="A1"><v>2</v></c></row></sheetData>`},
	}, nil)

	if got := r.SheetNames(); !reflect.DeepEqual(got, []string{"First", "Second"}) {
		t.Errorf("SheetNames() = %v", got)
	}
	s, err := r.SheetByName("Second")
	if err != nil || s.Index != 1 {
		t.Errorf("SheetByName() = %v, %v", s, err)
	}
	if _, err := r.SheetByName("Third"); err == nil {
		t.Error("SheetByName() of unknown sheet should fail")
	}
	if _, err := r.Sheet(2); err == nil {
		t.Error("Sheet(2) should fail")
	}
}

func TestCellTypeHandling(t *testing.T) {
	r := openXLSX(t, []testSheet{{"Sheet1", `<sheetData>
  <row r="1">
    <c r="A1" t="s"><v>0</v></c>
    <c r="B1"><v>42</v></c>
    <c r="C1" t="b"><v>1</v></c>
    <c r="D1" t="b"><v>0</v></c>
    <c r="E1" t="e"><v>#REF!</v></c>
    <c r="F1" t="str"><v>formula result</v></c>
    <c r="G1"><f>A1+B1</f></c>
  </row>
</sheetData>`}}, []string{"text"})

	sheet, _ := r.Sheet(0)

	tests := []struct {
		ref      string
		wantType CellType
		wantVal  string
	}{
		{"A1", CellTypeString, "text"},
		{"B1", CellTypeNumber, "42"},
		{"C1", CellTypeBoolean, "TRUE"},
		{"D1", CellTypeBoolean, "FALSE"},
		{"E1", CellTypeError, "#REF!"},
		{"F1", CellTypeString, "formula result"},
		{"G1", CellTypeFormula, ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			cell := sheet.CellByRef(tt.ref)
			if cell == nil {
				t.Fatalf("Cell %s not found", tt.ref)
			}
			if cell.Type != tt.wantType {
				t.Errorf("Cell %s Type = %v, want %v", tt.ref, cell.Type, tt.wantType)
			}
			if cell.Value != tt.wantVal {
				t.Errorf("Cell %s Value = %q, want %q", tt.ref, cell.Value, tt.wantVal)
			}
		})
	}

	if v, ok := sheet.CellByRef("B1").Number(); !ok || v != 42 {
		t.Errorf("B1.Number() = %v, %v", v, ok)
	}
	if _, ok := sheet.CellByRef("A1").Number(); ok {
		t.Error("string cell reported a number")
	}
}

func TestMergedCells(t *testing.T) {
	r := openXLSX(t, []testSheet{{"Sheet1", salesSheet}}, salesStrings)
	sheet, _ := r.Sheet(0)

	if len(sheet.MergedRegions) != 1 {
		t.Fatalf("MergedRegions = %d, want 1", len(sheet.MergedRegions))
	}
	if got := sheet.MergedRegions[0].String(); got != "B1:C1" {
		t.Errorf("MergedRegions[0] = %s, want B1:C1", got)
	}

	c1 := sheet.CellByRef("C1")
	if !c1.IsMerged || c1.Value != "North" {
		t.Errorf("C1 = %+v, want merged North", c1)
	}
}

func TestSheet_Records(t *testing.T) {
	r := openXLSX(t, []testSheet{{"Sheet1", `<sheetData>
  <row r="2">
    <c r="B2" t="s"><v>0</v></c>
    <c r="C2" t="s"><v>1</v></c>
  </row>
  <row r="3">
    <c r="B3" t="s"><v>2</v></c>
    <c r="C3"><v>7</v></c>
  </row>
</sheetData>`}}, []string{"k", "v", "r"})
	sheet, _ := r.Sheet(0)

	if g, ok := sheet.Bounds(); !ok || g.String() != "B2:C3" {
		t.Errorf("Bounds() = %s, %v, want B2:C3", g, ok)
	}
	want := [][]string{{"k", "v"}, {"r", "7"}}
	if got := sheet.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v, want %v", got, want)
	}
}

func TestReader_Frame(t *testing.T) {
	r := openXLSX(t, []testSheet{{"Sales", salesSheet}}, salesStrings)

	f, err := r.Frame(FrameOptions{Sheet: "Sales", HeaderLevels: 2, IndexLevels: 1})
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}

	if got := f.Columns.Level(0); !reflect.DeepEqual(got, []string{"North", "North", "South"}) {
		t.Errorf("outer level = %v", got)
	}
	if got := f.Columns.Level(1); !reflect.DeepEqual(got, []string{"Q1", "Q2", "Q1"}) {
		t.Errorf("inner level = %v", got)
	}
	if f.Index.Name() != "product" || f.Key(0) != "widgets" {
		t.Errorf("index = %q, key = %v", f.Index.Name(), f.Key(0))
	}
	want := []any{1.5, 2.0, "n/a"}
	if !reflect.DeepEqual(f.Rows[0], want) {
		t.Errorf("row = %#v, want %#v", f.Rows[0], want)
	}
	if got := frame.FormatValue(f.Rows[0][1]); got != "2" {
		t.Errorf("FormatValue() = %q, want 2", got)
	}
}

func TestReader_FrameErrors(t *testing.T) {
	r := openXLSX(t, []testSheet{{"Empty", `<sheetData/>`}}, nil)

	if _, err := r.Frame(FrameOptions{}); err == nil {
		t.Error("zero header levels should fail")
	}
	if _, err := r.Frame(DefaultFrameOptions()); !errors.Is(err, frame.ErrShape) {
		t.Errorf("empty sheet error = %v, want ErrShape", err)
	}
	if _, err := r.Frame(FrameOptions{Sheet: "Nope", HeaderLevels: 1}); err == nil {
		t.Error("unknown sheet should fail")
	}
}

func TestReader_ImplicitPositionsAndRuns(t *testing.T) {
	r := openXLSX(t, []testSheet{{"Sheet1", `<sheetData>
  <row>
    <c t="inlineStr"><is><r><t>Net </t></r><r><t>sales</t></r></is></c>
    <c><v>7</v></c>
  </row>
  <row>
    <c r="C2"><v>8</v></c>
    <c><v>9</v></c>
  </row>
</sheetData>`}}, nil)
	sheet, _ := r.Sheet(0)

	tests := []struct {
		ref  string
		want string
	}{
		{"A1", "Net sales"},
		{"B1", "7"},
		{"C2", "8"},
		{"D2", "9"},
	}
	for _, tt := range tests {
		if c := sheet.CellByRef(tt.ref); c == nil || c.Value != tt.want {
			t.Errorf("CellByRef(%q) = %+v, want %q", tt.ref, c, tt.want)
		}
	}
	if sheet.MaxCol != 3 || len(sheet.Rows) != 2 {
		t.Errorf("grid = %d rows x %d cols, want 2 x 4", len(sheet.Rows), sheet.MaxCol+1)
	}
}

func TestSheetPath(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"worksheets/sheet2.xml", "xl/worksheets/sheet2.xml"},
		{"/xl/worksheets/data.xml", "xl/worksheets/data.xml"},
		{"xl/worksheets/sheet3.xml", "xl/worksheets/sheet3.xml"},
		{"", "xl/worksheets/sheet5.xml"},
	}
	for _, tt := range tests {
		if got := sheetPath(tt.target, 4); got != tt.want {
			t.Errorf("sheetPath(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
