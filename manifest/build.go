package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/tsawler/texdoc/config"
	"github.com/tsawler/texdoc/format"
	"github.com/tsawler/texdoc/frame"
	"github.com/tsawler/texdoc/htmltex"
	"github.com/tsawler/texdoc/latex"
	"github.com/tsawler/texdoc/mdtex"
	"github.com/tsawler/texdoc/plot"
	"github.com/tsawler/texdoc/xlsx"
)

// maxSectionDepth is the deepest heading a section can have.
const maxSectionDepth = 3

var (
	// ErrNoTableData is returned for tables with neither a source nor
	// records, or with both.
	ErrNoTableData = errors.New("manifest: table needs exactly one of source or records")
	// ErrUnsupportedSource is returned for files whose format cannot be
	// used where they are named.
	ErrUnsupportedSource = errors.New("manifest: unsupported source format")
)

// Build assembles the document. cfg supplies the preamble, front matter
// and defaults; nil means [config.Default]. Manifest fields override the
// configuration.
func (m *Manifest) Build(cfg *config.Config) (*latex.Document, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	popts, err := cfg.PreambleOptions()
	if err != nil {
		return nil, err
	}
	if m.Template != "" {
		tpl, err := latex.LoadTemplate(m.resolve(m.Template))
		if err != nil {
			return nil, err
		}
		popts.Template = tpl
	}
	override(&popts.Title, m.Title)
	override(&popts.Author, m.Author)
	override(&popts.Date, m.Date)
	override(&popts.Font, m.Font)

	doc, err := latex.NewDocument(latex.NewPreamble(popts), m.documentOptions(cfg.DocumentOptions()))
	if err != nil {
		return nil, err
	}

	if ps := m.PageStyle; ps != nil {
		err := doc.Add(latex.NewPageStyle(latex.PageStyleOptions{
			LeftHeader:  ps.LeftHeader,
			RightHeader: ps.RightHeader,
			LeftFooter:  ps.LeftFooter,
			RightFooter: ps.RightFooter,
		}))
		if err != nil {
			return nil, err
		}
	}

	b := &builder{m: m, figDir: m.figureDir()}
	for i := range m.Parts {
		n := &m.Parts[i]
		path := fmt.Sprintf("parts[%d]", i)
		if n.ClearPage {
			doc.AddClearPage()
			continue
		}
		p, err := b.node(path, n, 0)
		if err != nil {
			return nil, err
		}
		if err := doc.Add(p); err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
	}
	return doc, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (m *Manifest) documentOptions(o latex.DocumentOptions) latex.DocumentOptions {
	if m.Options == nil {
		return o
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&o.IncludeTitle, m.Options.IncludeTitle)
	set(&o.CoverPage, m.Options.CoverPage)
	set(&o.TableOfContents, m.Options.TableOfContents)
	set(&o.ListOfFigures, m.Options.ListOfFigures)
	set(&o.ListOfTables, m.Options.ListOfTables)
	return o
}

func (m *Manifest) figureDir() string {
	if m.FigureDir == "" {
		return filepath.Join(m.baseDir, "figures")
	}
	return m.resolve(m.FigureDir)
}

// builder turns nodes into parts. depth is the level of the enclosing
// section, zero at the top of the document.
type builder struct {
	m      *Manifest
	figDir string
}

// PathError locates a build failure in the parts tree, for example
// "parts[2].section.parts[0]".
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// node builds one node. Errors carry the path of the innermost failing
// node.
func (b *builder) node(path string, n *Node, depth int) (latex.Part, error) {
	p, err := b.build(path, n, depth)
	if err != nil {
		var pe *PathError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &PathError{Path: path, Err: err}
	}
	return p, nil
}

func (b *builder) build(path string, n *Node, depth int) (latex.Part, error) {
	switch {
	case n.Section != nil:
		return b.section(path, n.Section, depth)
	case n.Text != nil:
		return latex.NewText(*n.Text), nil
	case n.Raw != nil:
		return latex.NewRawText(*n.Raw), nil
	case n.Verbatim != nil:
		return latex.NewVerbatim(*n.Verbatim), nil
	case n.Bold != nil:
		t := latex.NewText("")
		t.AddBold(*n.Bold)
		return t, nil
	case n.List != nil:
		return list(n.List)
	case n.Markdown != "":
		data, err := os.ReadFile(b.m.resolve(n.Markdown))
		if err != nil {
			return nil, fmt.Errorf("reading markdown: %w", err)
		}
		return b.markdown(data, depth), nil
	case n.MarkdownText != nil:
		return b.markdown([]byte(*n.MarkdownText), depth), nil
	case n.HTML != "":
		r, err := htmltex.Open(b.m.resolve(n.HTML), htmltex.Options{
			Furniture:     htmltex.DropNamed,
			HeadingOffset: depth,
		})
		if err != nil {
			return nil, err
		}
		return latex.NewRawText(r.Tex()), nil
	case n.Table != nil:
		return b.table(n.Table)
	case n.Figure != nil:
		return b.figure(n.Figure)
	case n.Columns != nil:
		return b.columns(path, n.Columns, depth)
	case n.Pages != nil:
		return b.pages(n.Pages)
	case n.Environment != nil:
		return b.environment(path, n.Environment, depth)
	case n.ClearPage:
		return latex.NewPart("\n\\clearpage\n"), nil
	}
	return nil, ErrInvalidNode
}

// children builds a parts list one section level below depth.
func (b *builder) children(path string, nodes []Node, depth int) ([]latex.Part, error) {
	parts := make([]latex.Part, 0, len(nodes))
	for i := range nodes {
		p, err := b.node(fmt.Sprintf("%s[%d]", path, i), &nodes[i], depth)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func (b *builder) section(path string, s *SectionSpec, depth int) (latex.Part, error) {
	level := depth + 1
	if level > maxSectionDepth {
		return nil, fmt.Errorf("section %q nested %d levels deep, at most %d allowed", s.Title, level, maxSectionDepth)
	}

	opts := []latex.SectionOption{latex.SectionLevel(level)}
	if s.Numbered != nil && !*s.Numbered {
		opts = append(opts, latex.Unnumbered())
	}
	if s.Link != "" {
		opts = append(opts, latex.SectionLink(s.Link))
	}
	if s.RawTitle {
		opts = append(opts, latex.RawTitle())
	}
	sec, err := latex.NewSection(s.Title, opts...)
	if err != nil {
		return nil, err
	}

	parts, err := b.children(path+".section.parts", s.Parts, level)
	if err != nil {
		return nil, err
	}
	content := make([]any, len(parts))
	for i, p := range parts {
		content[i] = p
	}
	if err := sec.Add(content...); err != nil {
		return nil, err
	}
	return sec, nil
}

// markdown converts Markdown so that its top heading sits one level below
// the enclosing section.
func (b *builder) markdown(data []byte, depth int) latex.Part {
	opts := mdtex.DefaultOptions()
	opts.HeadingOffset = depth
	return latex.NewRawText(mdtex.ConvertWithOptions(data, opts))
}

func list(l *ListSpec) (latex.Part, error) {
	items := make([]latex.ListItem, len(l.Items))
	for i, it := range l.Items {
		items[i] = latex.ListItem{Text: it.Text, Level: it.Level}
	}
	t := latex.NewText("")
	if err := t.AddList(items, !l.Enumerate); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *builder) table(ts *TableSpec) (latex.Part, error) {
	kind := latex.PlainTable
	if ts.Type != "" {
		k, err := latex.ParseTableType(ts.Type)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	f, err := b.tableFrame(ts)
	if err != nil {
		return nil, err
	}

	opts := []latex.TableOption{latex.TableData(f)}
	if ts.Caption != "" {
		opts = append(opts, latex.TableCaption(ts.Caption))
	}
	if ts.CaptionOf != "" {
		opts = append(opts, latex.TableCaptionOf(ts.CaptionOf))
	}
	if ts.EmptyLabel {
		opts = append(opts, latex.TableEmptyLabel())
	}
	if ts.Link != "" {
		opts = append(opts, latex.TableLink(ts.Link))
	}
	if ts.Alignment != "" {
		opts = append(opts, latex.TableAlignment(ts.Alignment))
	}
	if ts.Zebra {
		opts = append(opts, latex.TableZebra())
	}
	if ts.MidRule != nil {
		opts = append(opts, latex.TableMidRule(*ts.MidRule))
	}

	colors := make(map[string]string, len(ts.RowColors))
	for k, v := range ts.RowColors {
		colors[k] = v
	}
	if h := ts.Highlight; h != nil {
		hl, err := frame.RowColors(f, h.Column, h.Values, h.Color)
		if err != nil {
			return nil, err
		}
		for k, v := range hl {
			colors[k] = v
		}
	}
	if len(colors) > 0 {
		opts = append(opts, latex.TableRowColors(colors))
	}

	return latex.NewTable(kind, ts.Label, opts...)
}

// tableFrame loads the table data from its source file or inline records.
func (b *builder) tableFrame(ts *TableSpec) (*frame.Frame, error) {
	if (ts.Source == "") == (ts.Records == nil) {
		return nil, ErrNoTableData
	}

	header, index := 1, 1
	if ts.HeaderLevels != nil {
		header = *ts.HeaderLevels
	}
	if ts.IndexLevels != nil {
		index = *ts.IndexLevels
	}

	if ts.Records != nil {
		return frame.FromRecords(ts.Records, header, index)
	}

	src := b.m.resolve(ts.Source)
	switch f := format.Detect(src); f {
	case format.CSV:
		opts := frame.CSVOptions{HeaderLevels: header, IndexLevels: index, Comma: ','}
		if ts.Delimiter != "" {
			r, size := utf8.DecodeRuneInString(ts.Delimiter)
			if size != len(ts.Delimiter) {
				return nil, fmt.Errorf("delimiter %q must be a single character", ts.Delimiter)
			}
			opts.Comma = r
		}
		return frame.ReadCSVFile(src, opts)
	case format.XLSX:
		r, err := xlsx.Open(src)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return r.Frame(xlsx.FrameOptions{Sheet: ts.Sheet, HeaderLevels: header, IndexLevels: index})
	default:
		return nil, fmt.Errorf("%w: table source %s is %s", ErrUnsupportedSource, ts.Source, f)
	}
}

func (b *builder) figure(fs *FigureSpec) (latex.Part, error) {
	var opts []latex.FigureOption
	if fs.Caption != "" {
		opts = append(opts, latex.FigureCaption(fs.Caption))
	}
	if fs.EmptyLabel {
		opts = append(opts, latex.FigureEmptyLabel())
	}
	if fs.Link != "" {
		opts = append(opts, latex.FigureLink(fs.Link))
	}
	if fs.MaxWidth != nil {
		opts = append(opts, latex.FigureMaxWidth(*fs.MaxWidth))
	}
	if fs.MaxHeight != nil {
		opts = append(opts, latex.FigureMaxHeight(*fs.MaxHeight))
	}
	if fs.DPI != 0 {
		opts = append(opts, latex.FigureDPI(fs.DPI))
	}

	src := b.m.resolve(fs.Path)
	f := format.Detect(src)
	switch {
	case f.IsGraphic():
		return latex.NewFigure(fs.Label, filepath.ToSlash(src), opts...)
	case f.IsImage():
		img, err := plot.Load(src)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(b.figDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating figure directory: %w", err)
		}
		opts = append(opts, latex.FigureDir(b.figDir))
		return latex.NewPlotFigure(fs.Label, img, opts...)
	default:
		return nil, fmt.Errorf("%w: figure %s is %s", ErrUnsupportedSource, fs.Path, f)
	}
}

func (b *builder) columns(path string, cols [][]Node, depth int) (latex.Part, error) {
	slots := make([]latex.Part, len(cols))
	for i, col := range cols {
		parts, err := b.children(fmt.Sprintf("%s.columns[%d]", path, i), col, depth)
		if err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			slots[i] = parts[0]
			continue
		}
		c, err := latex.NewContainer(parts...)
		if err != nil {
			return nil, err
		}
		slots[i] = c
	}
	return latex.NewColumnsOf(slots...)
}

func (b *builder) pages(ps *PagesSpec) (latex.Part, error) {
	sources := make([]string, len(ps.Sources))
	for i, s := range ps.Sources {
		src := b.m.resolve(s)
		if f := format.Detect(src); f != format.PDF {
			return nil, fmt.Errorf("%w: page source %s is %s", ErrUnsupportedSource, s, f)
		}
		sources[i] = filepath.ToSlash(src)
	}

	pr, err := latex.NewPageRange(sources...)
	if err != nil {
		return nil, err
	}
	if ps.Rotate != 0 {
		pr.RotateAll(ps.Rotate)
	}
	if ps.Rotations != nil {
		pr.SetRotations(ps.Rotations...)
	}
	if ps.Scale != nil {
		pr.ScaleAll(*ps.Scale)
	}
	if ps.Scales != nil {
		pr.SetScales(ps.Scales...)
	}
	return pr, nil
}

func (b *builder) environment(path string, es *EnvironmentSpec, depth int) (latex.Part, error) {
	parts, err := b.children(path+".environment.parts", es.Parts, depth)
	if err != nil {
		return nil, err
	}
	env, err := latex.NewEnvironment(parts...)
	if err != nil {
		return nil, err
	}

	for i, w := range es.Wrap {
		if err := wrap(env, w); err != nil {
			return nil, fmt.Errorf("wrap[%d]: %w", i, err)
		}
	}
	return env, nil
}

func orOne(f *float64) float64 {
	if f == nil {
		return 1
	}
	return *f
}

func wrap(env *latex.Environment, w WrapSpec) error {
	set := 0
	for _, ok := range []bool{w.Minipage != nil, w.Centering, w.Landscape, w.Adjustbox != nil, w.SidewaysTable} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("need exactly one environment, found %d", set)
	}

	switch {
	case w.Minipage != nil:
		return env.AddMinipage(*w.Minipage)
	case w.Centering:
		env.AddCentering()
	case w.Landscape:
		env.AddLandscape()
	case w.Adjustbox != nil:
		return env.AddAdjustbox(orOne(w.Adjustbox.MaxWidth), orOne(w.Adjustbox.MaxHeight))
	case w.SidewaysTable:
		return env.AddSidewaysTable()
	}
	return nil
}
