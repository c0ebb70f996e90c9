package latex

import (
	"strings"

	"github.com/tsawler/texdoc/escape"
)

// Text is body text. Plain text is escaped; raw text is emitted as
// written.
type Text struct {
	Base
	raw bool
}

// NewText creates escaped body text.
func NewText(text string) *Text {
	t := &Text{}
	t.AddText(text)
	return t
}

// NewRawText creates body text that is not escaped, for callers that
// write markup themselves.
func NewRawText(text string) *Text {
	t := &Text{raw: true}
	t.AddText(text)
	return t
}

// NewVerbatim creates a verbatim block.
func NewVerbatim(text string) *Text {
	t := &Text{}
	t.AddVerbatim(text)
	return t
}

func (t *Text) clean(s string) string {
	if t.raw {
		return s
	}
	return escape.Escape(s)
}

// AddText appends text, escaped unless the part is raw.
func (t *Text) AddText(s string) {
	t.Base.Add(t.clean(s))
}

// AddVerbatim appends a verbatim block. Its content is never escaped.
func (t *Text) AddVerbatim(s string) {
	t.Base.Add("\n\\begin{verbatim}\n" + s + "\n\\end{verbatim}\n")
}

// AddBold appends escaped bold text.
func (t *Text) AddBold(s string) {
	t.Base.Add("\\textbf{" + escape.Escape(s) + "}")
}

// ListItem is one entry of a nested list. Level 1 is the outermost.
type ListItem struct {
	Text  string
	Level int
}

// AddList appends a nested list, bulleted or numbered.
func (t *Text) AddList(items []ListItem, bullets bool) error {
	for _, it := range items {
		if it.Level < 1 {
			return partErr("text", "list", wrapf(ErrInvalidRange, "item %q has level %d", it.Text, it.Level))
		}
	}

	style := "enumerate"
	if bullets {
		style = "itemize"
	}

	var sb strings.Builder
	sb.WriteString("\\Activate\n")
	sb.WriteString("\\begin{easylist}[" + style + "]\n")
	sb.WriteString("\\ListProperties(Hang=true, Progressive=4ex)\n")
	for _, it := range items {
		sb.WriteString(strings.Repeat("&", it.Level) + " " + t.clean(it.Text) + "\n")
	}
	sb.WriteString("\\end{easylist}\n")
	sb.WriteString("\\Deactivate\n\n")

	t.Base.Add(sb.String())
	return nil
}

// Raw reports whether text is added unescaped.
func (t *Text) Raw() bool { return t.raw }
