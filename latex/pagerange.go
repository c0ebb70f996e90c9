package latex

import (
	"fmt"
	"strings"
)

// PageRange embeds whole external PDF files, one includepdf per source,
// each with its own rotation and scale.
//
// Sources, rotations and scales are only checked against each other when
// the range is rendered, since any of them may still be changing until
// then.
type PageRange struct {
	Base

	sources   []string
	rotations []int
	scales    []float64
}

// NewPageRange creates a range from file paths.
func NewPageRange(sources ...string) (*PageRange, error) {
	if len(sources) == 0 {
		return nil, partErr("pages", "create", wrapf(ErrInvalidArgument, "no sources"))
	}
	return &PageRange{sources: append([]string(nil), sources...)}, nil
}

// NewPageSlots creates n unset sources to be filled with Set.
func NewPageSlots(n int) (*PageRange, error) {
	if n <= 0 {
		return nil, partErr("pages", "create", wrapf(ErrInvalidRange, "page count must be positive, got %d", n))
	}
	return &PageRange{sources: make([]string, n)}, nil
}

// Set replaces source i.
func (p *PageRange) Set(i int, source string) error {
	if i < 0 || i >= len(p.sources) {
		return partErr("pages", "set", wrapf(ErrInvalidArgument, "slot %d of %d", i, len(p.sources)))
	}
	p.sources[i] = source
	return nil
}

// SetRotations gives one rotation in degrees per source.
func (p *PageRange) SetRotations(degrees ...int) {
	p.rotations = append([]int(nil), degrees...)
}

// RotateAll rotates every source by degrees.
func (p *PageRange) RotateAll(degrees int) {
	p.rotations = make([]int, len(p.sources))
	for i := range p.rotations {
		p.rotations[i] = degrees
	}
}

// SetScales gives one scale per source.
func (p *PageRange) SetScales(scales ...float64) {
	p.scales = append([]float64(nil), scales...)
}

// ScaleAll scales every source by s.
func (p *PageRange) ScaleAll(s float64) {
	p.scales = make([]float64, len(p.sources))
	for i := range p.scales {
		p.scales[i] = s
	}
}

// Sources returns the page sources.
func (p *PageRange) Sources() []string {
	return append([]string(nil), p.sources...)
}

func (p *PageRange) validate() error {
	n := len(p.sources)
	if p.rotations != nil && len(p.rotations) != n {
		return wrapf(ErrLengthMismatch, "%d rotations for %d sources", len(p.rotations), n)
	}
	if p.scales != nil && len(p.scales) != n {
		return wrapf(ErrLengthMismatch, "%d scales for %d sources", len(p.scales), n)
	}
	for i, s := range p.scales {
		if err := checkScale(fmt.Sprintf("page %d", i), s); err != nil {
			return err
		}
	}
	for i, src := range p.sources {
		if strings.TrimSpace(src) == "" {
			return wrapf(ErrInvalidPageSource, "page %d is unset", i)
		}
	}
	return nil
}

func (p *PageRange) writeTo(sb *strings.Builder) error {
	if err := p.validate(); err != nil {
		return partErr("pages", "unpack", err)
	}
	if err := p.Base.writeTo(sb); err != nil {
		return err
	}
	for i, src := range p.sources {
		angle, scale := 0, 1.0
		if p.rotations != nil {
			angle = p.rotations[i]
		}
		if p.scales != nil {
			scale = p.scales[i]
		}
		fmt.Fprintf(sb, "\\includepdf[pages=1-, angle=%d, scale=%s]{%s}\n", angle, formatScale(scale), src)
	}
	sb.WriteString("\n")
	return nil
}
