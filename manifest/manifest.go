// Package manifest describes a document in YAML and builds it.
//
// A manifest names the preamble fields, the front matter and a tree of
// parts. Every entry of a parts list holds exactly one kind of part:
//
//	title: Quarterly Report
//	author: Finance
//	page_style:
//	  left_header: ACME
//	parts:
//	  - section:
//	      title: Overview
//	      parts:
//	        - markdown: overview.md
//	        - table:
//	            type: longtable
//	            label: tab:sales
//	            caption: Sales by region
//	            source: sales.xlsx
//	            header_levels: 2
//	  - clearpage: true
//	  - pages:
//	      sources: [appendix.pdf]
//	      rotate: 90
//
// Relative file names are resolved against the manifest's directory and
// made absolute, so the generated source can be typeset from anywhere.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidNode is returned for part entries that name no kind or more
// than one.
var ErrInvalidNode = errors.New("manifest: each part needs exactly one kind")

// Manifest is a parsed document description.
type Manifest struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
	Font     string `yaml:"font"`
	Template string `yaml:"template"`

	// FigureDir receives images converted for inclusion. Empty means a
	// "figures" directory next to the manifest.
	FigureDir string `yaml:"figure_dir"`

	Options   *Options       `yaml:"options"`
	PageStyle *PageStyleSpec `yaml:"page_style"`
	Parts     []Node         `yaml:"parts"`

	baseDir string
}

// Options override the configured front matter. Unset fields keep the
// configured value.
type Options struct {
	IncludeTitle    *bool `yaml:"include_title"`
	CoverPage       *bool `yaml:"cover_page"`
	TableOfContents *bool `yaml:"toc"`
	ListOfFigures   *bool `yaml:"lof"`
	ListOfTables    *bool `yaml:"lot"`
}

// PageStyleSpec sets running headers and footers.
type PageStyleSpec struct {
	LeftHeader  string `yaml:"left_header"`
	RightHeader string `yaml:"right_header"`
	LeftFooter  string `yaml:"left_footer"`
	RightFooter string `yaml:"right_footer"`
}

// Node is one entry of a parts list.
type Node struct {
	Section      *SectionSpec     `yaml:"section"`
	Text         *string          `yaml:"text"`
	Raw          *string          `yaml:"raw"`
	Verbatim     *string          `yaml:"verbatim"`
	Bold         *string          `yaml:"bold"`
	List         *ListSpec        `yaml:"list"`
	Markdown     string           `yaml:"markdown"`
	MarkdownText *string          `yaml:"markdown_text"`
	HTML         string           `yaml:"html"`
	Table        *TableSpec       `yaml:"table"`
	Figure       *FigureSpec      `yaml:"figure"`
	Columns      [][]Node         `yaml:"columns"`
	Pages        *PagesSpec       `yaml:"pages"`
	Environment  *EnvironmentSpec `yaml:"environment"`
	ClearPage    bool             `yaml:"clearpage"`
}

// SectionSpec is a heading with nested parts. Nested sections go one level
// deeper than their parent.
type SectionSpec struct {
	Title    string `yaml:"title"`
	Numbered *bool  `yaml:"numbered"`
	Link     string `yaml:"link"`
	RawTitle bool   `yaml:"raw_title"`
	Parts    []Node `yaml:"parts"`
}

// ListSpec is a bulleted or numbered list. Items without a level are
// top-level items.
type ListSpec struct {
	Enumerate bool       `yaml:"enumerate"`
	Items     []ListItem `yaml:"items"`
}

// ListItem is one list entry. A plain string is accepted for a level 1
// item.
type ListItem struct {
	Text  string `yaml:"text"`
	Level int    `yaml:"level"`
}

// UnmarshalYAML accepts either a string or a mapping.
func (li *ListItem) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		li.Text, li.Level = n.Value, 1
		return nil
	}
	type plain ListItem
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*li = ListItem(p)
	if li.Level == 0 {
		li.Level = 1
	}
	return nil
}

// TableSpec is a table filled from a CSV or XLSX file or inline records.
type TableSpec struct {
	Type       string            `yaml:"type"`
	Label      string            `yaml:"label"`
	Caption    string            `yaml:"caption"`
	CaptionOf  string            `yaml:"caption_of"`
	EmptyLabel bool              `yaml:"empty_label"`
	Link       string            `yaml:"link"`
	Alignment  string            `yaml:"alignment"`
	Zebra      bool              `yaml:"zebra"`
	MidRule    *string           `yaml:"mid_rule"`
	RowColors  map[string]string `yaml:"row_colors"`
	Highlight  *HighlightSpec    `yaml:"highlight"`

	Source       string     `yaml:"source"`
	Sheet        string     `yaml:"sheet"`
	Delimiter    string     `yaml:"delimiter"`
	HeaderLevels *int       `yaml:"header_levels"`
	IndexLevels  *int       `yaml:"index_levels"`
	Records      [][]string `yaml:"records"`
}

// HighlightSpec colours the rows whose Column value is one of Values.
type HighlightSpec struct {
	Column string   `yaml:"column"`
	Values []string `yaml:"values"`
	Color  string   `yaml:"color"`
}

// FigureSpec is an image with caption and label. Images the engine cannot
// include directly are converted to PNG first.
type FigureSpec struct {
	Label      string   `yaml:"label"`
	Path       string   `yaml:"path"`
	Caption    string   `yaml:"caption"`
	EmptyLabel bool     `yaml:"empty_label"`
	Link       string   `yaml:"link"`
	MaxWidth   *float64 `yaml:"max_width"`
	MaxHeight  *float64 `yaml:"max_height"`
	DPI        int      `yaml:"dpi"`
}

// PagesSpec inserts whole pages of external PDFs.
type PagesSpec struct {
	Sources   []string  `yaml:"sources"`
	Rotate    int       `yaml:"rotate"`
	Rotations []int     `yaml:"rotations"`
	Scale     *float64  `yaml:"scale"`
	Scales    []float64 `yaml:"scales"`
}

// EnvironmentSpec wraps parts in environments, applied in list order.
type EnvironmentSpec struct {
	Wrap  []WrapSpec `yaml:"wrap"`
	Parts []Node     `yaml:"parts"`
}

// WrapSpec is one wrapping environment. Exactly one field is set.
type WrapSpec struct {
	Minipage      *float64       `yaml:"minipage"`
	Centering     bool           `yaml:"centering"`
	Landscape     bool           `yaml:"landscape"`
	Adjustbox     *AdjustboxSpec `yaml:"adjustbox"`
	SidewaysTable bool           `yaml:"sideways_table"`
}

// AdjustboxSpec limits content to fractions of the line width and text
// height. An omitted limit is 1.
type AdjustboxSpec struct {
	MaxWidth  *float64 `yaml:"max_width"`
	MaxHeight *float64 `yaml:"max_height"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse parses manifest YAML. baseDir resolves relative file names.
// Unknown keys are errors.
func Parse(data []byte, baseDir string) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	m := &Manifest{}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest directory: %w", err)
	}
	m.baseDir = abs

	if err := checkNodes("parts", m.Parts); err != nil {
		return nil, err
	}
	return m, nil
}

// New returns a manifest holding parts, resolving relative names against
// baseDir.
func New(baseDir string, parts ...Node) (*Manifest, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest directory: %w", err)
	}
	if err := checkNodes("parts", parts); err != nil {
		return nil, err
	}
	return &Manifest{Parts: parts, baseDir: abs}, nil
}

// BaseDir returns the absolute directory relative names are resolved in.
func (m *Manifest) BaseDir() string {
	return m.baseDir
}

// resolve makes name absolute relative to the manifest directory.
func (m *Manifest) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.baseDir, name)
}

// kinds returns the names of the kinds set on n.
func (n *Node) kinds() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(n.Section != nil, "section")
	add(n.Text != nil, "text")
	add(n.Raw != nil, "raw")
	add(n.Verbatim != nil, "verbatim")
	add(n.Bold != nil, "bold")
	add(n.List != nil, "list")
	add(n.Markdown != "", "markdown")
	add(n.MarkdownText != nil, "markdown_text")
	add(n.HTML != "", "html")
	add(n.Table != nil, "table")
	add(n.Figure != nil, "figure")
	add(n.Columns != nil, "columns")
	add(n.Pages != nil, "pages")
	add(n.Environment != nil, "environment")
	add(n.ClearPage, "clearpage")
	return out
}

// checkNodes verifies the one-kind rule through the whole tree so that
// mistakes are reported before anything is built.
func checkNodes(path string, nodes []Node) error {
	for i := range nodes {
		n := &nodes[i]
		p := fmt.Sprintf("%s[%d]", path, i)
		if k := n.kinds(); len(k) != 1 {
			return fmt.Errorf("%s: %w, found %v", p, ErrInvalidNode, k)
		}
		switch {
		case n.Section != nil:
			if err := checkNodes(p+".section.parts", n.Section.Parts); err != nil {
				return err
			}
		case n.Environment != nil:
			if err := checkNodes(p+".environment.parts", n.Environment.Parts); err != nil {
				return err
			}
		case n.Columns != nil:
			for j, col := range n.Columns {
				if err := checkNodes(fmt.Sprintf("%s.columns[%d]", p, j), col); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
