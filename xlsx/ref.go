package xlsx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadRef is returned for malformed A1-style references.
var ErrBadRef = errors.New("xlsx: bad cell reference")

// Ref is a zero-based cell position.
type Ref struct {
	Row, Col int
}

// ParseRef parses an A1-style reference such as "C7" or "aa10". Absolute
// markers ("$C$7") are accepted.
func ParseRef(s string) (Ref, error) {
	t := strings.ReplaceAll(s, "$", "")
	split := strings.IndexFunc(t, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}

	col := 0
	for _, c := range strings.ToUpper(t[:split]) {
		if c < 'A' || c > 'Z' {
			return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
		}
		col = col*26 + int(c-'A') + 1
	}
	row, err := strconv.Atoi(t[split:])
	if err != nil || row < 1 {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
	return Ref{Row: row - 1, Col: col - 1}, nil
}

// String returns the A1-style form of r.
func (r Ref) String() string {
	return ColumnName(r.Col) + strconv.Itoa(r.Row+1)
}

// ColumnName returns the letters of a zero-based column: 0 is "A", 26 is
// "AA". Negative columns have no name.
func ColumnName(col int) string {
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Range is a rectangle of cells, inclusive at both corners.
type Range struct {
	From, To Ref
}

// ParseRange parses "B2:D4". A single reference is a one-cell range.
// Corners given in reverse order are normalised.
func ParseRange(s string) (Range, error) {
	first, second, found := strings.Cut(s, ":")
	from, err := ParseRef(first)
	if err != nil {
		return Range{}, err
	}
	to := from
	if found {
		if to, err = ParseRef(second); err != nil {
			return Range{}, err
		}
	}
	return Range{
		From: Ref{Row: min(from.Row, to.Row), Col: min(from.Col, to.Col)},
		To:   Ref{Row: max(from.Row, to.Row), Col: max(from.Col, to.Col)},
	}, nil
}

// Contains reports whether r lies inside g.
func (g Range) Contains(r Ref) bool {
	return r.Row >= g.From.Row && r.Row <= g.To.Row && r.Col >= g.From.Col && r.Col <= g.To.Col
}

// String returns the A1-style form of g.
func (g Range) String() string {
	if g.From == g.To {
		return g.From.String()
	}
	return g.From.String() + ":" + g.To.String()
}
