package latex

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DocumentOptions selects the front matter emitted before the body.
type DocumentOptions struct {
	// IncludeTitle emits \maketitle when the preamble has a title.
	IncludeTitle bool
	// CoverPage breaks the page after the title.
	CoverPage bool

	TableOfContents bool
	ListOfFigures   bool
	ListOfTables    bool
}

// DefaultDocumentOptions enables the title and all three lists, without a
// cover page.
func DefaultDocumentOptions() DocumentOptions {
	return DocumentOptions{
		IncludeTitle:    true,
		TableOfContents: true,
		ListOfFigures:   true,
		ListOfTables:    true,
	}
}

// Document is the root of a tree: a preamble plus an ordered list of
// top-level parts.
//
// Only parts that may stand at the top level are accepted. A bare tabular
// must be wrapped in a container, and only level 1 sections may be added
// directly.
//
// Assembly is recomputed from the parts each time. [Document.Print]
// consumes the assembled text: afterwards [Document.Tex] is empty until
// the next assembly. [Document.Serialize] never touches the stored text.
type Document struct {
	preamble *Preamble
	opts     DocumentOptions
	parts    []Part
	tex      string
}

// NewDocument creates a document.
func NewDocument(preamble *Preamble, opts DocumentOptions) (*Document, error) {
	if preamble == nil {
		return nil, partErr("document", "create", wrapf(ErrInvalidArgument, "nil preamble"))
	}
	return &Document{preamble: preamble, opts: opts}, nil
}

// Add appends top-level parts. Either all are added or none is.
func (d *Document) Add(parts ...Part) error {
	for _, p := range parts {
		if err := checkTopLevel(p); err != nil {
			return partErr("document", "add", err)
		}
	}
	if err := checkChildren(nil, parts); err != nil {
		return partErr("document", "add", err)
	}
	for _, p := range parts {
		attach(nil, p)
	}
	d.parts = append(d.parts, parts...)
	return nil
}

func checkTopLevel(p Part) error {
	switch v := p.(type) {
	case *Preamble:
		return wrapf(ErrStructuralPlacement, "the preamble is given to NewDocument")
	case *Table:
		if v != nil && v.kind == Tabular {
			return wrapf(ErrStructuralPlacement, "a bare tabular must be wrapped in a container")
		}
	case *Section:
		if v != nil && v.level != 1 {
			return wrapf(ErrStructuralPlacement, "a level %d section must be nested in its parent section", v.level)
		}
	}
	return nil
}

// AddClearPage appends a page break.
func (d *Document) AddClearPage() {
	p := NewPart("\n\\clearpage\n")
	attach(nil, p)
	d.parts = append(d.parts, p)
}

// Parts returns the top-level parts in order.
func (d *Document) Parts() []Part {
	return append([]Part(nil), d.parts...)
}

// Preamble returns the document preamble.
func (d *Document) Preamble() *Preamble {
	return d.preamble
}

// Options returns the front matter options.
func (d *Document) Options() DocumentOptions {
	return d.opts
}

// Serialize returns the complete source without changing the document.
func (d *Document) Serialize() (string, error) {
	var sb strings.Builder
	sb.WriteString(d.preamble.Tex())
	if err := d.writeBody(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (d *Document) writeBody(sb *strings.Builder) error {
	sb.WriteString("\n\n\\begin{document}\n")

	if d.opts.IncludeTitle && d.preamble.Title() != "" {
		sb.WriteString("\n\\maketitle\n\n")
	}
	if d.opts.CoverPage {
		sb.WriteString("\\clearpage\n")
	}
	if d.opts.TableOfContents {
		writeList(sb, AnchorTOC, "tableofcontents")
	}
	if d.opts.ListOfFigures {
		writeList(sb, AnchorLOF, "listoffigures")
	}
	if d.opts.ListOfTables {
		writeList(sb, AnchorLOT, "listoftables")
	}

	for i, p := range d.parts {
		if err := p.writeTo(sb); err != nil {
			return fmt.Errorf("part %d: %w", i+1, err)
		}
	}

	sb.WriteString("\n\n\\end{document}\n")
	return nil
}

// writeList emits a list command preceded by its hyperlink anchor.
func writeList(sb *strings.Builder, anchor, cmd string) {
	fmt.Fprintf(sb, "\\addtocontents{%s}{\\protect\\hypertarget{%s}{}}\\%s\n", anchor, anchor, cmd)
}

// Assemble recomputes the stored text from the parts and returns it. On
// failure the stored text is cleared.
func (d *Document) Assemble() (string, error) {
	tex, err := d.Serialize()
	if err != nil {
		d.tex = ""
		return "", err
	}
	d.tex = tex
	return tex, nil
}

// Tex returns the text stored by the last assembly.
func (d *Document) Tex() string {
	return d.tex
}

// Print assembles the document, writes it to w and clears the stored
// text.
func (d *Document) Print(w io.Writer) error {
	tex, err := d.Assemble()
	if err != nil {
		return err
	}
	d.tex = ""
	if _, err := io.WriteString(w, tex); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Export assembles the document and writes it to path. The stored text is
// kept.
func (d *Document) Export(path string) error {
	tex, err := d.Assemble()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(tex), 0o644); err != nil {
		return fmt.Errorf("exporting document: %w", err)
	}
	return nil
}
