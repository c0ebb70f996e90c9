package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVOptions controls how ReadCSV interprets header rows and index columns.
type CSVOptions struct {
	// HeaderLevels is the number of leading rows that label the columns.
	// Blank cells in all but the last header row repeat the label to their
	// left, so a group label only needs to be written once.
	HeaderLevels int

	// IndexLevels is the number of leading columns that label the rows.
	// Their names are read from the last header row. Zero means the rows
	// are labelled by position.
	IndexLevels int

	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// DefaultCSVOptions returns one header row and one index column.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{HeaderLevels: 1, IndexLevels: 1, Comma: ','}
}

// ReadCSVFile reads a CSV file into a frame.
func ReadCSVFile(path string, opts CSVOptions) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, opts)
}

// ReadCSV reads delimited records into a frame. All cell values are
// strings.
func ReadCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	if opts.HeaderLevels < 1 {
		return nil, errors.New("frame: csv needs at least one header row")
	}
	if opts.IndexLevels < 0 {
		return nil, errors.New("frame: negative index levels")
	}

	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) < opts.HeaderLevels {
		return nil, fmt.Errorf("%w: %d records, %d header rows", ErrShape, len(records), opts.HeaderLevels)
	}

	return FromRecords(records, opts.HeaderLevels, opts.IndexLevels)
}

// FromRecords builds a frame from string records, the first headerLevels of
// which label the columns and the first indexLevels columns of which label
// the rows. It is shared by the CSV and spreadsheet loaders.
func FromRecords(records [][]string, headerLevels, indexLevels int) (*Frame, error) {
	if len(records) < headerLevels {
		return nil, fmt.Errorf("%w: %d records, %d header rows", ErrShape, len(records), headerLevels)
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	if width <= indexLevels {
		return nil, fmt.Errorf("%w: %d columns with %d index columns", ErrShape, width, indexLevels)
	}

	header := make([][]string, headerLevels)
	for l := 0; l < headerLevels; l++ {
		header[l] = pad(records[l], width)
	}
	// Forward-fill group labels on outer header rows.
	for l := 0; l < headerLevels-1; l++ {
		for j := indexLevels + 1; j < width; j++ {
			if header[l][j] == "" {
				header[l][j] = header[l][j-1]
			}
		}
	}

	colNames := make([]string, headerLevels)
	colLabels := make([][]string, 0, width-indexLevels)
	for j := indexLevels; j < width; j++ {
		lab := make([]string, headerLevels)
		for l := 0; l < headerLevels; l++ {
			lab[l] = header[l][j]
		}
		colLabels = append(colLabels, lab)
	}
	columns, err := NewAxis(colNames, colLabels...)
	if err != nil {
		return nil, err
	}

	body := records[headerLevels:]
	rows := make([][]any, len(body))

	var index Axis
	if indexLevels == 0 {
		index = RangeAxis("", len(body))
	} else {
		names := make([]string, indexLevels)
		copy(names, header[headerLevels-1][:indexLevels])
		labels := make([][]string, len(body))
		for i, rec := range body {
			rec = pad(rec, width)
			labels[i] = append([]string(nil), rec[:indexLevels]...)
		}
		index, err = NewAxis(names, labels...)
		if err != nil {
			return nil, err
		}
	}

	for i, rec := range body {
		rec = pad(rec, width)
		row := make([]any, 0, width-indexLevels)
		for _, v := range rec[indexLevels:] {
			row = append(row, v)
		}
		rows[i] = row
	}

	return New(index, columns, rows)
}

func pad(rec []string, width int) []string {
	if len(rec) >= width {
		return rec
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}
