package latex

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/texdoc/escape"
)

// DefaultTemplate is the built-in preamble. It loads every package the
// parts in this package emit commands for, and carries a commented-out
// main font line that [NewPreamble] enables when a font is given.
//
//go:embed preamble.tex
var DefaultTemplate string

// Placeholders in a preamble template.
const (
	fontGuard       = "%__"
	fontPlaceholder = "__font__"
)

// PreambleOptions describes a preamble.
type PreambleOptions struct {
	// Template is the preamble source. Empty means DefaultTemplate.
	Template string
	// Font enables the template's main font line with this font.
	Font string

	Title  string
	Author string
	Date   string
}

// Preamble is everything before the document body. It is given to
// [NewDocument] once and cannot be added as a part.
type Preamble struct {
	Base
	opts PreambleOptions
}

// NewPreamble builds a preamble from opts. Title, author and date are
// escaped and appended only when set.
func NewPreamble(opts PreambleOptions) *Preamble {
	p := &Preamble{opts: opts}

	tpl := opts.Template
	if tpl == "" {
		tpl = DefaultTemplate
	}
	if opts.Font != "" {
		tpl = strings.ReplaceAll(tpl, fontGuard, "")
		tpl = strings.ReplaceAll(tpl, fontPlaceholder, opts.Font)
	}
	p.Base.Add(tpl + "\n\n")

	if opts.Title != "" {
		p.Base.Add("\\title{" + escape.Escape(opts.Title) + "}\n")
	}
	if opts.Author != "" {
		p.Base.Add("\\author{" + escape.Escape(opts.Author) + "}\n")
	}
	if opts.Date != "" {
		p.Base.Add("\\date{" + escape.Escape(opts.Date) + "}\n")
	}
	return p
}

// LoadTemplate reads a preamble template from path.
func LoadTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading preamble template: %w", err)
	}
	return string(b), nil
}

// Title returns the document title.
func (p *Preamble) Title() string { return p.opts.Title }

// Author returns the document author.
func (p *Preamble) Author() string { return p.opts.Author }

// Font returns the main font, if any.
func (p *Preamble) Font() string { return p.opts.Font }
