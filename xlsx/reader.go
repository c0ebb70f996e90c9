// Package xlsx reads Excel workbooks into frames for table rendering.
//
// Only cell values are read: shared, inline and formula strings, numbers,
// booleans and merged regions. A merged region repeats its value in every
// cell it covers, which is how grouped column headers are usually laid out
// in a spreadsheet.
//
//	r, err := xlsx.Open("sales.xlsx")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	f, err := r.Frame(xlsx.FrameOptions{Sheet: "Q1", HeaderLevels: 2, IndexLevels: 1})
package xlsx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoSheets is returned for workbooks without a readable worksheet.
var ErrNoSheets = errors.New("xlsx: no worksheets found")

// Reader holds the worksheets of a workbook. The workbook is decoded when
// the Reader is created.
type Reader struct {
	sheets []*Sheet
	closer io.Closer
}

// Open reads an XLSX file. Close releases the file.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading file info: %w", err)
	}

	r, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads a workbook from ra. ra is not used after NewReader
// returns. Worksheets that cannot be decoded are skipped.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	a := newArchive(zr)
	if _, ok := a["[Content_Types].xml"]; !ok {
		return nil, fmt.Errorf("%w: [Content_Types].xml", errMissingPart)
	}

	var wb workbookPart
	if err := a.decode("xl/workbook.xml", &wb); err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	// Relationships and shared strings are optional.
	var rels relationshipsPart
	_ = a.decode("xl/_rels/workbook.xml.rels", &rels)
	targets := make(map[string]string, len(rels.Items))
	for _, rel := range rels.Items {
		targets[rel.ID] = rel.Target
	}

	var sst sharedStringsPart
	_ = a.decode("xl/sharedStrings.xml", &sst)
	strs := make([]string, len(sst.Items))
	for i, it := range sst.Items {
		strs[i] = it.String()
	}

	r := &Reader{}
	for i, entry := range wb.Sheets {
		var ws worksheetPart
		if err := a.decode(sheetPath(targets[entry.RelID], i), &ws); err != nil {
			continue
		}
		r.sheets = append(r.sheets, ws.sheet(entry.Name, len(r.sheets), strs))
	}
	if len(r.sheets) == 0 {
		return nil, ErrNoSheets
	}
	return r, nil
}

// Close releases the file opened by Open. It is safe to call twice.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// SheetCount returns the number of readable sheets.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// SheetNames returns the sheet names in workbook order.
func (r *Reader) SheetNames() []string {
	names := make([]string, 0, len(r.sheets))
	for _, s := range r.sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet returns the sheet at a zero-based index.
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.sheets) {
		return nil, fmt.Errorf("xlsx: sheet index %d out of range [0, %d)", index, len(r.sheets))
	}
	return r.sheets[index], nil
}

// SheetByName returns the named sheet.
func (r *Reader) SheetByName(name string) (*Sheet, error) {
	for _, s := range r.sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("xlsx: no sheet named %q", name)
}
