// Package frame provides the tabular data source consumed by latex tables.
//
// A [Frame] is an ordered sequence of rows, each an ordered sequence of cell
// values, labelled along two axes. Either axis may carry more than one
// level of labels (a multi-level index), for example an outer category and
// an inner sub-category:
//
//	cols, _ := frame.NewAxis([]string{"region", "quarter"},
//	    []string{"North", "Q1"}, []string{"North", "Q2"}, []string{"South", "Q1"})
//	idx := frame.SimpleAxis("product", "Widgets", "Gadgets")
//	f, err := frame.New(idx, cols, [][]any{{1, 2, 3}, {4, 5, 6}})
//
// How a caller obtains the rows is up to them; [ReadCSV] and the xlsx
// package cover the common file formats.
//
// # Groups
//
// [Axis.Groups] collapses each level into contiguous runs of equal labels.
// Runs only merge when they are adjacent and share every outer level, so
// labels A,A,B,B,B,C produce spans 2,3,1 while A,B,A produces three runs of
// one.
package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// KeySeparator joins the components of a multi-level row key into the
// string form used for lookups such as row colours.
const KeySeparator = "|"

var (
	// ErrShape is returned when rows and axes disagree in size.
	ErrShape = errors.New("frame: shape mismatch")
	// ErrLevels is returned when an axis label has the wrong number of levels.
	ErrLevels = errors.New("frame: inconsistent label levels")
	// ErrColumnNotFound is returned when a column lookup fails.
	ErrColumnNotFound = errors.New("frame: column not found")
)

// Frame is an ordered, labelled grid of cell values.
type Frame struct {
	Index   Axis
	Columns Axis
	Rows    [][]any
}

// New creates a frame and checks that the axes match the rows.
// An index without labels is replaced by a positional index 0..n-1.
func New(index, columns Axis, rows [][]any) (*Frame, error) {
	if index.Len() == 0 && len(rows) > 0 {
		index = RangeAxis(index.Name(), len(rows))
	}
	if index.Len() != len(rows) {
		return nil, fmt.Errorf("%w: %d index labels for %d rows", ErrShape, index.Len(), len(rows))
	}
	for i, row := range rows {
		if len(row) != columns.Len() {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, i, len(row), columns.Len())
		}
	}
	return &Frame{Index: index, Columns: columns, Rows: rows}, nil
}

// Shape returns the number of rows and leaf columns.
func (f *Frame) Shape() (rows, cols int) {
	return len(f.Rows), f.Columns.Len()
}

// Key returns the index key of row i: a string for single-level indexes,
// a []string for multi-level ones.
func (f *Frame) Key(i int) any {
	k := f.Index.Key(i)
	if len(k) == 1 {
		return k[0]
	}
	return k
}

// Tuples returns every row as a slice whose first element is the row key
// and whose remaining elements are the cell values.
func (f *Frame) Tuples() [][]any {
	out := make([][]any, len(f.Rows))
	for i, row := range f.Rows {
		t := make([]any, 0, len(row)+1)
		t = append(t, f.Key(i))
		t = append(t, row...)
		out[i] = t
	}
	return out
}

// Column returns the position of the first leaf column whose innermost
// label equals name.
func (f *Frame) Column(name string) (int, error) {
	inner := f.Columns.Levels() - 1
	for i := 0; i < f.Columns.Len(); i++ {
		if f.Columns.Labels[i][inner] == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// RowColors returns a row key → colour mapping for every row whose value in
// column is one of values. The result is meant for table row overrides.
func RowColors(f *Frame, column string, values []string, color string) (map[string]string, error) {
	col, err := f.Column(column)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}

	colors := make(map[string]string)
	for i, row := range f.Rows {
		if want[FormatValue(row[col])] {
			colors[KeyString(f.Key(i))] = color
		}
	}
	return colors, nil
}

// KeyString returns the lookup form of a row key. Multi-level keys are
// joined with KeySeparator.
func KeyString(key any) string {
	switch k := key.(type) {
	case []string:
		return strings.Join(k, KeySeparator)
	case []any:
		parts := make([]string, len(k))
		for i, p := range k {
			parts[i] = FormatValue(p)
		}
		return strings.Join(parts, KeySeparator)
	default:
		return FormatValue(key)
	}
}

// FormatValue renders a cell value as display text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
