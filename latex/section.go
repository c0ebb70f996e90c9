package latex

import (
	"fmt"

	"github.com/tsawler/texdoc/escape"
)

// Hyperlink anchors placed by [Document] when the matching list is enabled.
const (
	AnchorTOC = "toc"
	AnchorLOF = "lof"
	AnchorLOT = "lot"
)

var sectionCommands = [...]string{1: "section", 2: "subsection", 3: "subsubsection"}

// Section is a titled heading at level 1, 2 or 3 followed by its content.
type Section struct {
	Container

	title    string
	level    int
	numbered bool
	link     string
	raw      bool
}

// SectionOption configures a Section.
type SectionOption func(*Section)

// SectionLevel sets the heading depth: 1 section, 2 subsection,
// 3 subsubsection. The default is 1.
func SectionLevel(n int) SectionOption {
	return func(s *Section) { s.level = n }
}

// Unnumbered omits the heading number while keeping a contents entry.
func Unnumbered() SectionOption {
	return func(s *Section) { s.numbered = false }
}

// SectionLink wraps the title in a hyperlink to anchor, for example
// [AnchorTOC].
func SectionLink(anchor string) SectionOption {
	return func(s *Section) { s.link = anchor }
}

// RawTitle keeps the title as written instead of escaping it.
func RawTitle() SectionOption {
	return func(s *Section) { s.raw = true }
}

// NewSection creates a section. A level outside 1..3 fails with
// [ErrInvalidLevel].
func NewSection(title string, opts ...SectionOption) (*Section, error) {
	s := &Section{title: title, level: 1, numbered: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.level < 1 || s.level > 3 {
		return nil, partErr("section", "create", wrapf(ErrInvalidLevel, "got %d", s.level))
	}
	s.Base.Add(s.heading())
	return s, nil
}

func (s *Section) heading() string {
	cmd := sectionCommands[s.level]
	title := s.title
	if !s.raw {
		title = escape.Escape(title)
	}

	shown := title
	if s.link != "" {
		shown = fmt.Sprintf(`\hyperlink{%s}{%s}`, s.link, title)
	}

	if !s.numbered {
		return fmt.Sprintf("\n\n\\%s*{%s}\n\\addcontentsline{toc}{%s}{%s}\n\n", cmd, shown, cmd, title)
	}
	if s.link != "" {
		return fmt.Sprintf("\n\n\\%s[%s]{%s}\n\n", cmd, title, shown)
	}
	return fmt.Sprintf("\n\n\\%s{%s}\n\n", cmd, title)
}

// Add appends content to the section. A string is added to the heading
// buffer as raw markup and is emitted before any child part; a Part is
// added as a child.
func (s *Section) Add(content ...any) error {
	for _, c := range content {
		if _, ok := c.(string); ok {
			continue
		}
		p, ok := c.(Part)
		if !ok || isNil(p) {
			return partErr("section", "add", fmt.Errorf("%w: got %T", ErrInvalidChildType, c))
		}
	}

	var parts []Part
	for _, c := range content {
		if p, ok := c.(Part); ok {
			parts = append(parts, p)
		}
	}
	if err := s.addChildren(s, parts); err != nil {
		return err
	}
	for _, c := range content {
		if text, ok := c.(string); ok {
			s.Base.Add(text)
		}
	}
	return nil
}

// AddChild appends parts as children of the section.
func (s *Section) AddChild(children ...Part) error {
	return s.addChildren(s, children)
}

// AddText appends raw markup to the heading buffer.
func (s *Section) AddText(text string) {
	s.Base.Add(text)
}

// Title returns the heading text as given.
func (s *Section) Title() string { return s.title }

// Level returns the heading depth.
func (s *Section) Level() int { return s.level }

// Numbered reports whether the heading is numbered.
func (s *Section) Numbered() bool { return s.numbered }
