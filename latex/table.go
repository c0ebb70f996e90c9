package latex

import (
	"fmt"
	"strings"

	"github.com/tsawler/texdoc/escape"
	"github.com/tsawler/texdoc/frame"
)

// TableType selects the environment a table is typeset in.
type TableType int

const (
	// PlainTable is a floating table holding a tabular.
	PlainTable TableType = iota
	// Tabular is a bare tabular. It cannot float, so it must be placed in a
	// container rather than directly in a document.
	Tabular
	// Longtable breaks across pages and repeats its header.
	Longtable
	// SidewaysTable is a rotated float whose tabular is shrunk to fit.
	SidewaysTable
)

var tableTypeNames = [...]string{
	PlainTable:    "table",
	Tabular:       "tabular",
	Longtable:     "longtable",
	SidewaysTable: "sidewaystable",
}

func (t TableType) String() string {
	if t >= 0 && int(t) < len(tableTypeNames) {
		return tableTypeNames[t]
	}
	return fmt.Sprintf("TableType(%d)", int(t))
}

// ParseTableType maps an environment name to its TableType.
func ParseTableType(s string) (TableType, error) {
	for i, name := range tableTypeNames {
		if strings.EqualFold(s, name) {
			return TableType(i), nil
		}
	}
	return 0, wrapf(ErrUnknownTableType, "%q", s)
}

func (t TableType) valid() bool {
	return t >= PlainTable && t <= SidewaysTable
}

// inner is the row-holding environment.
func (t TableType) inner() string {
	if t == Longtable {
		return "longtable"
	}
	return "tabular"
}

// Table renders tabular data with booktabs rules, grouped column headers
// and optional row colouring.
//
// A table built with data is complete after [NewTable]. Without data it is
// built step by step: caption, label, alignment, rules, header, rows and
// foot, in that order.
type Table struct {
	Base

	kind       TableType
	label      string
	caption    string
	captionOf  string
	emptyLabel bool
	link       string
	alignment  string
	zebra      bool
	rowColors  map[string]string
	midRule    bool
	ruleColor  string

	index   frame.Axis
	columns frame.Axis
	data    *frame.Frame

	begun bool
	boxed bool
}

// TableOption configures a Table.
type TableOption func(*Table)

// TableData fills the table from f. Headers, groups and the row key
// columns come from the frame's axes.
func TableData(f *frame.Frame) TableOption {
	return func(t *Table) { t.data = f }
}

// TableColumns sets explicit headers for a table without data. The first
// name labels the row key column.
func TableColumns(names ...string) TableOption {
	return func(t *Table) {
		if len(names) == 0 {
			return
		}
		t.index = frame.SimpleAxis(names[0])
		t.columns = frame.SimpleAxis("", names[1:]...)
	}
}

// TableCaption sets the caption text.
func TableCaption(text string) TableOption {
	return func(t *Table) { t.caption = text }
}

// TableCaptionOf typesets the caption as a caption of the given float type
// outside a float, for example "table".
func TableCaptionOf(float string) TableOption {
	return func(t *Table) { t.captionOf = float }
}

// TableEmptyLabel suppresses the "Table n:" caption prefix.
func TableEmptyLabel() TableOption {
	return func(t *Table) { t.emptyLabel = true }
}

// TableLink makes the caption a hyperlink to anchor.
func TableLink(anchor string) TableOption {
	return func(t *Table) { t.link = anchor }
}

// TableAlignment overrides the column specification, for example "{lcr}".
func TableAlignment(spec string) TableOption {
	return func(t *Table) { t.alignment = spec }
}

// TableZebra stripes alternate rows.
func TableZebra() TableOption {
	return func(t *Table) { t.zebra = true }
}

// TableRowColors colours rows by key. Keys of multi-level indexes are
// joined with [frame.KeySeparator].
func TableRowColors(colors map[string]string) TableOption {
	return func(t *Table) {
		for k, v := range colors {
			t.rowColors[k] = v
		}
	}
}

// TableMidRule draws a rule between body rows, in color when it is not
// empty.
func TableMidRule(color string) TableOption {
	return func(t *Table) {
		t.midRule = true
		t.ruleColor = color
	}
}

// NewTable creates a table. Zebra striping together with row colours fails
// with [ErrConflictingRowStyle].
func NewTable(kind TableType, label string, opts ...TableOption) (*Table, error) {
	if !kind.valid() {
		return nil, partErr("table", "create", wrapf(ErrUnknownTableType, "%d", int(kind)))
	}
	t := &Table{kind: kind, label: label, rowColors: make(map[string]string)}
	for _, opt := range opts {
		opt(t)
	}
	if t.zebra && len(t.rowColors) > 0 {
		return nil, partErr("table", "create", ErrConflictingRowStyle)
	}
	if t.data != nil {
		t.index = t.data.Index
		t.columns = t.data.Columns
	}

	switch kind {
	case PlainTable:
		t.Base.Add("\\begin{table}[!h]\n\\centering\n")
	case SidewaysTable:
		t.Base.Add("\n\\begin{sidewaystable}\n")
	default:
		t.Base.Add("\n")
	}

	if t.data != nil {
		if err := t.build(); err != nil {
			return nil, partErr("table", "create", err)
		}
	}
	return t, nil
}

// build emits the complete table from its data.
func (t *Table) build() error {
	if t.zebra {
		t.AddZebra()
	}

	switch t.kind {
	case Longtable:
		t.SetAlignment(t.alignment)
		t.AddCaption(t.caption)
		t.AddLabel(t.label)
	default:
		t.AddCaption(t.caption)
		t.AddLabel(t.label)
		t.SetAlignment(t.alignment)
	}

	t.AddTopRule()
	t.AddHeader()
	if err := t.Fill(t.data); err != nil {
		return err
	}
	t.AddFoot()
	return nil
}

// openBox starts the shrink-to-fit box of a sideways table. The box goes
// after the caption, so it opens with the label or the row environment,
// whichever comes first.
func (t *Table) openBox() {
	if t.kind != SidewaysTable || t.boxed {
		return
	}
	t.boxed = true
	t.Base.Add("\\begin{adjustbox}{max width=\\textheight, max totalheight=\\linewidth}\n\n")
}

// Type returns the table type.
func (t *Table) Type() TableType { return t.kind }

// Label returns the cross-reference label.
func (t *Table) Label() string { return t.label }

// Caption returns the caption text.
func (t *Table) Caption() string { return t.caption }

// Columns returns the column axis.
func (t *Table) Columns() frame.Axis { return t.columns }

// AddCaption emits a caption. Tabular tables and tables configured with
// [TableCaptionOf] use a standalone caption since they do not float. An
// empty caption emits nothing.
func (t *Table) AddCaption(caption string) {
	if caption == "" {
		return
	}
	t.caption = caption
	if t.emptyLabel {
		t.Base.Add("\\captionsetup{labelformat=empty}\n")
	}

	of := t.captionOf
	if t.kind == Tabular {
		of = "table"
	}
	cmd := "caption"
	if of != "" {
		cmd = "captionof{" + of + "}"
	}
	t.Base.Add(captionMarkup(cmd, escape.Escape(caption), t.link))
}

// AddLabel emits a cross-reference label. An empty label emits nothing.
func (t *Table) AddLabel(label string) {
	if label == "" {
		return
	}
	t.label = label
	t.openBox()
	if t.kind == Longtable {
		// Inside longtable the label occupies a row of its own.
		t.Base.Add("\\label{" + label + "}\\\\\n")
		return
	}
	t.Base.Add("\\label{" + label + "}\n")
}

// SetAlignment opens the row environment with spec as its column
// specification. An empty spec left-aligns the key columns and
// right-aligns the rest.
func (t *Table) SetAlignment(spec string) {
	if spec == "" {
		spec = t.defaultAlignment()
	} else if !strings.HasPrefix(spec, "{") {
		spec = "{" + spec + "}"
	}
	t.alignment = spec
	t.begun = true
	t.openBox()
	t.Base.Add("\\begin{" + t.kind.inner() + "}" + spec + "\n")
}

func (t *Table) defaultAlignment() string {
	keys := t.index.Levels()
	return "{" + strings.Repeat("l", keys) + strings.Repeat("r", t.columns.Len()) + "}"
}

// AddZebra stripes alternate rows grey.
func (t *Table) AddZebra() {
	t.Base.Add("\\rowcolors{1}{white}{gray!15}\n")
}

// SetRowColors merges colors into the row colour overrides.
func (t *Table) SetRowColors(colors map[string]string) error {
	if t.zebra && len(colors) > 0 {
		return partErr("table", "row colors", ErrConflictingRowStyle)
	}
	for k, v := range colors {
		t.rowColors[k] = v
	}
	return nil
}

// AddTopRule emits a top rule.
func (t *Table) AddTopRule() {
	t.Base.Add("\\toprule\n")
}

// AddMidRule emits a mid rule in the configured colour, then restores
// black.
func (t *Table) AddMidRule() {
	if t.ruleColor != "" {
		t.Base.Add("\\arrayrulecolor{" + t.ruleColor + "}")
	}
	t.Base.Add("\\midrule\n\\arrayrulecolor{black}\n")
}

// AddBottomRule emits a bottom rule.
func (t *Table) AddBottomRule() {
	t.Base.Add("\\bottomrule\n")
}

// AddRow emits one body row. row[0] is the row key; a []string or []any key
// fills one bold cell per index level. The remaining values are escaped.
func (t *Table) AddRow(row []any) error {
	if len(row) == 0 {
		return partErr("table", "add row", ErrInvalidRow)
	}
	if !t.begun {
		t.SetAlignment(t.alignment)
	}

	key := row[0]
	if color, ok := t.rowColors[frame.KeyString(key)]; ok {
		t.Base.Add("\\rowcolor{" + color + "}\n")
	}

	var sb strings.Builder
	switch k := key.(type) {
	case []string:
		for _, c := range k {
			sb.WriteString(bold(c) + " & ")
		}
	case []any:
		for _, c := range k {
			sb.WriteString(bold(frame.FormatValue(c)) + " & ")
		}
	default:
		sb.WriteString(bold(frame.FormatValue(key)) + " & ")
	}

	cells := make([]string, len(row)-1)
	for i, v := range row[1:] {
		cells[i] = escape.Escape(frame.FormatValue(v))
	}
	sb.WriteString(strings.Join(cells, " & "))
	sb.WriteString(" \\\\\n")

	t.Base.Add(sb.String())
	return nil
}

// Fill emits every row of f, with mid rules between rows when enabled.
func (t *Table) Fill(f *frame.Frame) error {
	if f == nil {
		return nil
	}
	tuples := f.Tuples()
	for i, row := range tuples {
		if err := t.AddRow(row); err != nil {
			return err
		}
		if t.midRule && i < len(tuples)-1 {
			t.AddMidRule()
		}
	}
	return nil
}

// AddFoot closes the row environment and, for plain and sideways tables,
// the float. Row colouring is reset afterwards.
func (t *Table) AddFoot() {
	switch t.kind {
	case PlainTable:
		t.AddBottomRule()
		t.Base.Add("\\end{tabular}\n\\end{table}\n")
	case Tabular:
		t.AddBottomRule()
		t.Base.Add("\\end{tabular}\n")
	case SidewaysTable:
		t.AddBottomRule()
		t.Base.Add("\\end{tabular}\n")
		if t.boxed {
			t.Base.Add("\\end{adjustbox}\n")
		}
		t.Base.Add("\\end{sidewaystable}\n")
	case Longtable:
		t.Base.Add("\\end{longtable}\n\n")
	}
	t.Base.Add("\\rowcolors{1}{white}{white}\n")
}

func bold(s string) string {
	return "\\textbf{" + escape.Escape(s) + "}"
}
