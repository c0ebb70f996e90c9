package frame

import (
	"fmt"
	"strconv"
)

// Axis labels the rows or the columns of a frame.
//
// Names has one entry per level. Labels has one entry per position, and
// each entry has one label per level, outermost first.
type Axis struct {
	Names  []string
	Labels [][]string
}

// NewAxis creates a multi-level axis. Every label must have len(names)
// levels.
func NewAxis(names []string, labels ...[]string) (Axis, error) {
	if len(names) == 0 {
		names = []string{""}
	}
	for i, l := range labels {
		if len(l) != len(names) {
			return Axis{}, fmt.Errorf("%w: label %d has %d levels, want %d", ErrLevels, i, len(l), len(names))
		}
	}
	return Axis{Names: names, Labels: labels}, nil
}

// SimpleAxis creates a single-level axis.
func SimpleAxis(name string, labels ...string) Axis {
	a := Axis{Names: []string{name}, Labels: make([][]string, len(labels))}
	for i, l := range labels {
		a.Labels[i] = []string{l}
	}
	return a
}

// RangeAxis creates a single-level axis labelled 0..n-1.
func RangeAxis(name string, n int) Axis {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return SimpleAxis(name, labels...)
}

// Levels returns the number of label levels, at least one.
func (a Axis) Levels() int {
	if len(a.Names) > 0 {
		return len(a.Names)
	}
	if len(a.Labels) > 0 && len(a.Labels[0]) > 0 {
		return len(a.Labels[0])
	}
	return 1
}

// Len returns the number of positions on the axis.
func (a Axis) Len() int {
	return len(a.Labels)
}

// Name returns the innermost level name.
func (a Axis) Name() string {
	if len(a.Names) == 0 {
		return ""
	}
	return a.Names[len(a.Names)-1]
}

// LevelNames returns the level names padded to Levels().
func (a Axis) LevelNames() []string {
	names := make([]string, a.Levels())
	copy(names, a.Names)
	return names
}

// Key returns the labels of position i, outermost first.
func (a Axis) Key(i int) []string {
	return a.Labels[i]
}

// Level returns the labels of every position at level l.
func (a Axis) Level(l int) []string {
	out := make([]string, len(a.Labels))
	for i, lab := range a.Labels {
		out[i] = lab[l]
	}
	return out
}

// Span is one merged run of equal labels on a level.
type Span struct {
	Name  string
	Start int
	Span  int
}

// GroupLabel holds the merged runs of every level of an axis, outermost
// level first. It is computed once per axis by Groups.
type GroupLabel struct {
	Levels [][]Span
}

// Depth returns the number of levels.
func (g GroupLabel) Depth() int {
	return len(g.Levels)
}

// Spans returns the run lengths of level l.
func (g GroupLabel) Spans(l int) []int {
	out := make([]int, len(g.Levels[l]))
	for i, s := range g.Levels[l] {
		out[i] = s.Span
	}
	return out
}

// Groups merges adjacent equal labels on every level. A run is broken when
// the label changes or when any outer level changes, so a repeated label
// that is not contiguous starts a new run.
func (a Axis) Groups() GroupLabel {
	depth := a.Levels()
	g := GroupLabel{Levels: make([][]Span, depth)}
	for l := 0; l < depth; l++ {
		var spans []Span
		for i := 0; i < a.Len(); i++ {
			if n := len(spans); n > 0 && samePrefix(a.Labels[i-1], a.Labels[i], l) {
				spans[n-1].Span++
				continue
			}
			spans = append(spans, Span{Name: a.Labels[i][l], Start: i, Span: 1})
		}
		g.Levels[l] = spans
	}
	return g
}

// samePrefix reports whether a and b agree on levels 0..l inclusive.
func samePrefix(a, b []string, l int) bool {
	for i := 0; i <= l; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
