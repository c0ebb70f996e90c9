package latex

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/texdoc/escape"
)

// PlotDPI is the resolution at which plottable figures are written.
const PlotDPI = 400

// Plottable is something that can write itself to an image file, such as a
// chart. The tight flag asks for surrounding whitespace to be cropped.
type Plottable interface {
	SaveToFile(path string, dpi int, tight bool) error
}

// extensioner lets a Plottable choose its output format. Plottables that
// do not implement it are written as PDF.
type extensioner interface {
	FileExtension() string
}

// Figure places one image, scaled to fit, in a centered minipage with an
// optional caption and a cross-reference label.
type Figure struct {
	Base

	label      string
	path       string
	maxWidth   float64
	maxHeight  float64
	caption    string
	emptyLabel bool
	link       string
	dir        string
	dpi        int
}

// FigureOption configures a Figure.
type FigureOption func(*Figure)

// FigureMaxWidth sets the minipage width as a fraction of the line width.
// The default is 1.
func FigureMaxWidth(f float64) FigureOption {
	return func(fig *Figure) { fig.maxWidth = f }
}

// FigureMaxHeight sets the image height limit as a fraction of the text
// height. The default is 1.
func FigureMaxHeight(f float64) FigureOption {
	return func(fig *Figure) { fig.maxHeight = f }
}

// FigureCaption sets the caption text.
func FigureCaption(text string) FigureOption {
	return func(fig *Figure) { fig.caption = text }
}

// FigureEmptyLabel suppresses the "Figure n:" caption prefix.
func FigureEmptyLabel() FigureOption {
	return func(fig *Figure) { fig.emptyLabel = true }
}

// FigureLink makes the caption a hyperlink to anchor.
func FigureLink(anchor string) FigureOption {
	return func(fig *Figure) { fig.link = anchor }
}

// FigureDir sets the directory plottable figures are written to.
func FigureDir(dir string) FigureOption {
	return func(fig *Figure) { fig.dir = dir }
}

// FigureDPI overrides the resolution for plottable figures.
func FigureDPI(dpi int) FigureOption {
	return func(fig *Figure) { fig.dpi = dpi }
}

func newFigure(label string, opts []FigureOption) (*Figure, error) {
	if label == "" {
		return nil, partErr("figure", "create", wrapf(ErrInvalidArgument, "empty label"))
	}
	f := &Figure{label: label, maxWidth: 1, maxHeight: 1, dpi: PlotDPI}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.checkScales(); err != nil {
		return nil, partErr("figure", "create", err)
	}
	return f, nil
}

func (f *Figure) checkScales() error {
	if err := checkScale("figure width", f.maxWidth); err != nil {
		return err
	}
	return checkScale("figure height", f.maxHeight)
}

// NewFigure creates a figure from an existing image file.
func NewFigure(label, path string, opts ...FigureOption) (*Figure, error) {
	f, err := newFigure(label, opts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, partErr("figure", "create", wrapf(ErrInvalidArgument, "empty image path"))
	}
	f.path = path
	f.rebuild()
	return f, nil
}

// NewPlotFigure writes p to the figure directory, named after the label,
// and creates a figure referencing the written file.
func NewPlotFigure(label string, p Plottable, opts ...FigureOption) (*Figure, error) {
	if p == nil {
		return nil, partErr("figure", "create", wrapf(ErrInvalidArgument, "nil plottable"))
	}
	f, err := newFigure(label, opts)
	if err != nil {
		return nil, err
	}

	ext := ".pdf"
	if e, ok := p.(extensioner); ok && e.FileExtension() != "" {
		ext = e.FileExtension()
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
	}
	f.path = filepath.ToSlash(filepath.Join(f.dir, label+ext))
	if err := p.SaveToFile(f.path, f.dpi, true); err != nil {
		return nil, partErr("figure", "save", fmt.Errorf("writing %s: %w", f.path, err))
	}
	f.rebuild()
	return f, nil
}

// SetCaption replaces the caption, applies opts and regenerates the
// markup. The figure is left unchanged if the options produce an invalid
// scale.
func (f *Figure) SetCaption(text string, opts ...FigureOption) error {
	next := *f
	next.caption = text
	for _, opt := range opts {
		opt(&next)
	}
	if err := next.checkScales(); err != nil {
		return partErr("figure", "caption", err)
	}
	f.caption = next.caption
	f.maxWidth, f.maxHeight = next.maxWidth, next.maxHeight
	f.emptyLabel, f.link = next.emptyLabel, next.link
	f.rebuild()
	return nil
}

// Label returns the cross-reference label.
func (f *Figure) Label() string { return f.label }

// Path returns the image path as referenced in the markup.
func (f *Figure) Path() string { return f.path }

// Caption returns the caption text.
func (f *Figure) Caption() string { return f.caption }

func (f *Figure) rebuild() {
	f.reset()

	var sb strings.Builder
	fmt.Fprintf(&sb, "\\begin{minipage}{%s\\linewidth}\n\\centering\n", formatScale(f.maxWidth))
	if f.caption != "" {
		if f.emptyLabel {
			sb.WriteString("\\captionsetup{labelformat=empty}\n")
		}
		sb.WriteString(captionMarkup("captionof{figure}", escape.Escape(f.caption), f.link))
	}
	fmt.Fprintf(&sb, "\\adjustimage{max size={\\linewidth}{%s\\textheight}}{%s}\n", formatScale(f.maxHeight), f.path)
	fmt.Fprintf(&sb, "\\label{%s}\n", f.label)
	sb.WriteString("\\end{minipage}")

	f.Base.Add(sb.String())
}

// captionMarkup renders a caption command, optionally hyperlinked. The
// short form in brackets keeps the link out of list-of entries.
func captionMarkup(cmd, caption, link string) string {
	if link == "" {
		return fmt.Sprintf("\\%s{%s}\n", cmd, caption)
	}
	return fmt.Sprintf("\\%s[%s]{\\hyperlink{%s}{%s}}\n", cmd, caption, link, caption)
}
