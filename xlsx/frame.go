package xlsx

import (
	"fmt"

	"github.com/tsawler/texdoc/frame"
)

// FrameOptions selects a sheet and describes its layout.
type FrameOptions struct {
	// Sheet is the sheet name. Empty means the first sheet.
	Sheet string
	// HeaderLevels is the number of header rows, at least one.
	HeaderLevels int
	// IndexLevels is the number of row key columns.
	IndexLevels int
}

// DefaultFrameOptions reads the first sheet with one header row and one
// key column.
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{HeaderLevels: 1, IndexLevels: 1}
}

// Frame reads a sheet into a frame. The sheet is trimmed to its non-empty
// area first. Number cells become float64 values; everything else stays a
// string.
func (r *Reader) Frame(opts FrameOptions) (*frame.Frame, error) {
	if opts.HeaderLevels < 1 {
		return nil, fmt.Errorf("xlsx: need at least one header row, got %d", opts.HeaderLevels)
	}

	sheet, err := r.Sheet(0)
	if opts.Sheet != "" {
		sheet, err = r.SheetByName(opts.Sheet)
	}
	if err != nil {
		return nil, err
	}
	return SheetFrame(sheet, opts.HeaderLevels, opts.IndexLevels)
}

// SheetFrame converts one sheet into a frame.
func SheetFrame(sheet *Sheet, headerLevels, indexLevels int) (*frame.Frame, error) {
	bounds, ok := sheet.Bounds()
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q is empty", frame.ErrShape, sheet.Name)
	}

	f, err := frame.FromRecords(sheet.Records(), headerLevels, indexLevels)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	for i, row := range f.Rows {
		for j := range row {
			cell := sheet.Cell(bounds.From.Row+headerLevels+i, bounds.From.Col+indexLevels+j)
			if cell == nil {
				continue
			}
			if v, ok := cell.Number(); ok {
				row[j] = v
			}
		}
	}
	return f, nil
}
