// Package texdoc provides a fluent API for building LaTeX documents and
// typesetting them as PDF.
//
// Basic usage:
//
//	tex, err := texdoc.Open("report.yaml").Tex()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	res, err := texdoc.Open("report.yaml").
//	    ConfigFile("texdoc.yaml").
//	    Engine("lualatex").
//	    Progress(os.Stderr).
//	    Render(ctx, "report.pdf")
//
// Open accepts a YAML manifest (see package manifest), a Markdown file or
// an HTML file. For documents built in code, use the latex package
// directly.
package texdoc

import (
	"github.com/tsawler/texdoc/config"
	"github.com/tsawler/texdoc/manifest"
)

// Open returns a Builder for the document described by filename. The file
// is read when a terminal operation such as Tex or Render is called.
//
// Example:
//
//	tex, err := texdoc.Open("notes.md").Tex()
func Open(filename string) *Builder {
	return &Builder{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromManifest returns a Builder for an already parsed manifest.
//
// Example:
//
//	m, err := manifest.Load("report.yaml")
//	if err != nil {
//	    // handle error
//	}
//	tex, err := texdoc.FromManifest(m).Tex()
func FromManifest(m *manifest.Manifest) *Builder {
	return &Builder{
		manifest: m,
		options:  defaultOptions(),
	}
}

// FromConfig is Open with the configuration taken from cfg.
func FromConfig(filename string, cfg *config.Config) *Builder {
	return Open(filename).WithConfig(cfg)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	tex := texdoc.Must(texdoc.Open("report.yaml").Tex())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
