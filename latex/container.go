package latex

import (
	"strings"
)

// Container is a part with an ordered list of children. It renders its
// buffer, then each child in insertion order, then its close fragments.
//
// A part has at most one owner. Adding a part that already belongs to a
// container or document fails with [ErrAlreadyAttached], and adding an
// ancestor fails with [ErrCycle].
type Container struct {
	Base
	children []Part
}

// NewContainer creates a container holding children.
func NewContainer(children ...Part) (*Container, error) {
	c := &Container{}
	if err := c.AddChild(children...); err != nil {
		return nil, err
	}
	return c, nil
}

// AddChild appends children in order. Either every child is added or, on
// the first invalid one, none is.
func (c *Container) AddChild(children ...Part) error {
	return c.addChildren(c, children)
}

// addChildren attaches children with self recorded as their owner. self is
// the outermost part embedding c.
func (c *Container) addChildren(self Part, children []Part) error {
	if err := checkChildren(self, children); err != nil {
		return err
	}
	if err := checkEnclosing(self, children); err != nil {
		return err
	}
	for _, child := range children {
		attach(self, child)
	}
	c.children = append(c.children, children...)
	return nil
}

// Children returns the direct children in insertion order.
func (c *Container) Children() []Part {
	return append([]Part(nil), c.children...)
}

// Len returns the number of direct children.
func (c *Container) Len() int {
	return len(c.children)
}

func (c *Container) childParts() []Part {
	return c.children
}

func (c *Container) writeTo(sb *strings.Builder) error {
	if err := c.Base.writeTo(sb); err != nil {
		return err
	}
	for _, child := range c.children {
		if err := child.writeTo(sb); err != nil {
			return err
		}
	}
	c.closers.each(func(s string) {
		sb.WriteString(s)
	})
	return nil
}

// branch is implemented by parts that own other parts.
type branch interface {
	childParts() []Part
}

// walk visits p and every descendant depth first.
func walk(p Part, fn func(Part)) {
	if isNil(p) {
		return
	}
	fn(p)
	if b, ok := p.(branch); ok {
		for _, child := range b.childParts() {
			walk(child, fn)
		}
	}
}

// checkChildren validates that every child may be attached under owner.
// A nil owner stands for the document root.
func checkChildren(owner Part, children []Part) error {
	seen := make(map[*Base]bool, len(children))
	for _, child := range children {
		if isNil(child) {
			return ErrInvalidChildType
		}
		if _, ok := child.(*Preamble); ok {
			return wrapf(ErrStructuralPlacement, "a preamble cannot be nested")
		}
		b := child.base()
		if b.attached || seen[b] {
			return ErrAlreadyAttached
		}
		for a := owner; !isNil(a); a = a.base().parent {
			if a.base() == b {
				return ErrCycle
			}
		}
		seen[b] = true
	}
	return nil
}

// checkEnclosing runs the wrapper rules of owner and of every environment
// above it against children about to be attached under owner.
func checkEnclosing(owner Part, children []Part) error {
	for a := owner; !isNil(a); a = a.base().parent {
		env, ok := a.(*Environment)
		if !ok {
			continue
		}
		for _, k := range env.kinds {
			if err := checkWrap(k, env.kinds, children); err != nil {
				return err
			}
		}
	}
	return nil
}

func attach(owner Part, child Part) {
	b := child.base()
	b.parent = owner
	b.attached = true
}

func detach(child Part) {
	if isNil(child) {
		return
	}
	b := child.base()
	b.parent = nil
	b.attached = false
}
