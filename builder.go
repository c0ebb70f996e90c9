package texdoc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tsawler/texdoc/config"
	"github.com/tsawler/texdoc/format"
	"github.com/tsawler/texdoc/htmltex"
	"github.com/tsawler/texdoc/latex"
	"github.com/tsawler/texdoc/manifest"
	"github.com/tsawler/texdoc/mdtex"
	"github.com/tsawler/texdoc/render"
)

// Builder provides a fluent interface for building and rendering a
// document. Each configuration method returns a new Builder instance,
// so a base Builder can be shared and specialised safely.
type Builder struct {
	// Source
	filename string
	manifest *manifest.Manifest

	// Configuration
	options BuildOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Builder with a deep copy of options.
func (b *Builder) clone() *Builder {
	return &Builder{
		filename: b.filename,
		manifest: b.manifest,
		options:  b.options.clone(),
		err:      b.err,
	}
}

// WithConfig replaces the configuration. A nil cfg restores the defaults.
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	nb := b.clone()
	if cfg == nil {
		cfg = config.Default()
	}
	nb.options.config = cfg
	nb.options = nb.options.clone()
	return nb
}

// ConfigFile loads the configuration from a YAML file. A missing file
// keeps the defaults; any other failure is returned by the terminal
// operation.
//
// Example:
//
//	tex, err := texdoc.Open("report.yaml").ConfigFile("texdoc.yaml").Tex()
func (b *Builder) ConfigFile(path string) *Builder {
	nb := b.clone()
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		if nb.err == nil {
			nb.err = err
		}
		return nb
	}
	nb.options.config = cfg
	return nb
}

// Engine sets the typesetting command, for example "lualatex".
func (b *Builder) Engine(name string) *Builder {
	nb := b.clone()
	nb.options.config.Render.Engine = name
	return nb
}

// Passes sets the number of engine runs.
func (b *Builder) Passes(n int) *Builder {
	nb := b.clone()
	nb.options.config.Render.Passes = n
	return nb
}

// WorkDir sets where render job directories are created.
func (b *Builder) WorkDir(dir string) *Builder {
	nb := b.clone()
	nb.options.config.Render.WorkDir = dir
	return nb
}

// KeepIntermediates leaves the job directory in place after rendering.
func (b *Builder) KeepIntermediates() *Builder {
	nb := b.clone()
	nb.options.config.Render.Keep = true
	return nb
}

// Font sets the main document font.
func (b *Builder) Font(name string) *Builder {
	nb := b.clone()
	nb.options.config.Preamble.Font = name
	return nb
}

// Logger sets the structured logger used while rendering.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	nb := b.clone()
	nb.options.logger = l
	return nb
}

// Progress sets a writer for human readable render progress, typically
// os.Stderr.
func (b *Builder) Progress(w io.Writer) *Builder {
	nb := b.clone()
	nb.options.progress = w
	return nb
}

// Runner replaces the command runner used for the engine.
func (b *Builder) Runner(r render.Runner) *Builder {
	nb := b.clone()
	nb.options.runner = r
	return nb
}

// Config returns a copy of the effective configuration.
func (b *Builder) Config() *config.Config {
	return b.options.clone().config
}

// Document builds the document tree.
func (b *Builder) Document() (*latex.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	m, err := b.loadManifest()
	if err != nil {
		return nil, err
	}
	return m.Build(b.options.config)
}

// Tex returns the complete LaTeX source.
//
// Example:
//
//	tex, err := texdoc.Open("notes.md").Tex()
func (b *Builder) Tex() (string, error) {
	doc, err := b.Document()
	if err != nil {
		return "", err
	}
	return doc.Serialize()
}

// Export writes the LaTeX source to path.
func (b *Builder) Export(path string) error {
	doc, err := b.Document()
	if err != nil {
		return err
	}
	return doc.Export(path)
}

// Map writes an outline of the document tree to w.
func (b *Builder) Map(w io.Writer) error {
	doc, err := b.Document()
	if err != nil {
		return err
	}
	return doc.WriteMap(w)
}

// Render builds the document and typesets it to dest.
//
// Example:
//
//	res, err := texdoc.Open("report.yaml").Render(ctx, "report.pdf")
func (b *Builder) Render(ctx context.Context, dest string) (*render.Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.options.config.Validate(); err != nil {
		return nil, err
	}

	doc, err := b.Document()
	if err != nil {
		return nil, err
	}

	rc := b.options.config.RenderConfig()
	rc.Logger = b.options.logger
	rc.Progress = b.options.progress
	rc.Runner = b.options.runner

	r, err := render.New(rc)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, doc, dest)
}

// loadManifest returns the manifest for the source, wrapping single
// Markdown and HTML files in a one-part manifest.
func (b *Builder) loadManifest() (*manifest.Manifest, error) {
	if b.manifest != nil {
		return b.manifest, nil
	}
	if b.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	dir, name := filepath.Dir(b.filename), filepath.Base(b.filename)

	switch f := format.Detect(b.filename); f {
	case format.YAML:
		return manifest.Load(b.filename)

	case format.Markdown:
		data, err := os.ReadFile(b.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read Markdown: %w", err)
		}
		m, err := manifest.New(dir, manifest.Node{Markdown: name})
		if err != nil {
			return nil, err
		}
		for _, h := range mdtex.Headings(data) {
			if h.Level == 1 {
				m.Title = h.Title
				break
			}
		}
		return m, nil

	case format.HTML:
		r, err := htmltex.Open(b.filename, htmltex.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open HTML: %w", err)
		}
		m, err := manifest.New(dir, manifest.Node{HTML: name})
		if err != nil {
			return nil, err
		}
		m.Title = r.Title()
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported file format: %s", f)
	}
}
