package latex

import (
	"github.com/tsawler/texdoc/escape"
)

// PageStyleOptions holds the running header and footer texts. Empty fields
// are left unset.
type PageStyleOptions struct {
	LeftHeader  string
	RightHeader string
	LeftFooter  string
	RightFooter string
}

// PageStyle switches to fancy headers and footers.
type PageStyle struct {
	Base
	opts PageStyleOptions
}

// NewPageStyle creates a page style. When every field is empty the part
// renders nothing.
func NewPageStyle(opts PageStyleOptions) *PageStyle {
	p := &PageStyle{opts: opts}

	slots := []struct{ cmd, text string }{
		{"\\fancyhead[L]", opts.LeftHeader},
		{"\\fancyhead[R]", opts.RightHeader},
		{"\\fancyfoot[L]", opts.LeftFooter},
		{"\\fancyfoot[R]", opts.RightFooter},
	}

	set := false
	for _, s := range slots {
		set = set || s.text != ""
	}
	if !set {
		return p
	}

	p.Base.Add("\\pagestyle{fancy}\n\n")
	for _, s := range slots {
		if s.text != "" {
			p.Base.Add(s.cmd + "{" + escape.Escape(s.text) + "}\n")
		}
	}
	p.Base.Add("\n\\thispagestyle{fancy}\n\n")
	return p
}

// Options returns the header and footer texts.
func (p *PageStyle) Options() PageStyleOptions { return p.opts }
