package latex

import (
	"reflect"
	"strings"
)

// Part is a node of the document tree.
//
// The set of parts is closed: every part embeds [Base], directly or through
// [Container], and the rendering hook is unexported. Use [NewPart] or
// [NewRawText] for literal markup that none of the built-in kinds produce.
type Part interface {
	// Tex returns the part's own buffered markup, excluding children and
	// close fragments.
	Tex() string

	base() *Base
	writeTo(sb *strings.Builder) error
}

// Unpack flattens p and everything below it into markup.
func Unpack(p Part) (string, error) {
	if isNil(p) {
		return "", ErrInvalidChildType
	}
	var sb strings.Builder
	if err := p.writeTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Base is the atomic renderable unit: an append-only text buffer plus a
// stack of deferred close fragments.
//
// A bare Base renders only its buffer. Containers render the buffer, then
// their children, then the close fragments, last pushed first.
type Base struct {
	buf     []string
	closers closeStack

	parent   Part
	attached bool
}

// NewPart creates a leaf part holding text verbatim.
func NewPart(text string) *Base {
	b := &Base{}
	if text != "" {
		b.buf = append(b.buf, text)
	}
	return b
}

// Add appends raw markup to the buffer.
func (b *Base) Add(text string) {
	if text != "" {
		b.buf = append(b.buf, text)
	}
}

// AddPart splices the current buffer of p into this buffer. Children and
// close fragments of p are not copied; this is literal text assembly, not
// tree composition.
func (b *Base) AddPart(p Part) {
	if isNil(p) {
		return
	}
	b.Add(p.Tex())
}

// PushClose pushes close fragments in order. They are emitted in reverse
// when the owning container finishes rendering.
func (b *Base) PushClose(fragments ...string) {
	b.closers.push(fragments...)
}

// Closers returns the pending close fragments in push order.
func (b *Base) Closers() []string {
	return b.closers.slice()
}

// Tex returns the buffered markup.
func (b *Base) Tex() string {
	return strings.Join(b.buf, "")
}

// Attached reports whether the part has been added to a container or
// document.
func (b *Base) Attached() bool {
	return b.attached
}

func (b *Base) reset() {
	b.buf = b.buf[:0]
}

func (b *Base) base() *Base {
	return b
}

func (b *Base) writeTo(sb *strings.Builder) error {
	for _, s := range b.buf {
		sb.WriteString(s)
	}
	return nil
}

// closeStack is a last-in, first-out list of close fragments. Rendering
// walks it from the top without popping, so a tree can be unpacked any
// number of times with identical results.
type closeStack struct {
	items []string
}

func (s *closeStack) push(fragments ...string) {
	s.items = append(s.items, fragments...)
}

func (s *closeStack) len() int {
	return len(s.items)
}

// each visits fragments from the most recently pushed to the first.
func (s *closeStack) each(fn func(string)) {
	for i := len(s.items) - 1; i >= 0; i-- {
		fn(s.items[i])
	}
}

func (s *closeStack) slice() []string {
	return append([]string(nil), s.items...)
}

// isNil reports whether p is nil or a typed nil pointer.
func isNil(p Part) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
