package latex

import (
	"fmt"
	"strings"
)

// Columns lays out a fixed number of slots side by side with multicol.
// Slots are separated by column breaks; an empty slot renders nothing.
type Columns struct {
	Base
	slots []Part
}

// NewColumns creates n empty slots.
func NewColumns(n int) (*Columns, error) {
	if n <= 0 {
		return nil, partErr("columns", "create", wrapf(ErrInvalidColumnCount, "got %d", n))
	}
	return &Columns{slots: make([]Part, n)}, nil
}

// NewColumnsOf creates one slot per part.
func NewColumnsOf(parts ...Part) (*Columns, error) {
	if len(parts) == 0 {
		return nil, partErr("columns", "create", wrapf(ErrInvalidColumnCount, "no parts"))
	}
	c := &Columns{slots: make([]Part, len(parts))}
	if err := checkChildren(c, parts); err != nil {
		return nil, partErr("columns", "create", err)
	}
	for i, p := range parts {
		attach(c, p)
		c.slots[i] = p
	}
	return c, nil
}

// Set places p in slot i, replacing whatever was there.
func (c *Columns) Set(i int, p Part) error {
	if i < 0 || i >= len(c.slots) {
		return partErr("columns", "set", wrapf(ErrInvalidArgument, "slot %d of %d", i, len(c.slots)))
	}
	if isNil(p) {
		return partErr("columns", "set", ErrInvalidChildType)
	}
	if c.slots[i] == p {
		return nil
	}
	if err := checkChildren(c, []Part{p}); err != nil {
		return partErr("columns", "set", err)
	}
	if err := checkEnclosing(c, []Part{p}); err != nil {
		return err
	}
	detach(c.slots[i])
	attach(c, p)
	c.slots[i] = p
	return nil
}

// Len returns the number of slots.
func (c *Columns) Len() int {
	return len(c.slots)
}

// Slot returns the part in slot i, or nil when the slot is empty.
func (c *Columns) Slot(i int) Part {
	return c.slots[i]
}

func (c *Columns) childParts() []Part {
	var out []Part
	for _, p := range c.slots {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (c *Columns) writeTo(sb *strings.Builder) error {
	if err := c.Base.writeTo(sb); err != nil {
		return err
	}
	fmt.Fprintf(sb, "\n\\begin{multicols}{%d}\n", len(c.slots))
	for i, p := range c.slots {
		if i > 0 {
			sb.WriteString("\n\n\\columnbreak\n\n")
		}
		if p == nil {
			continue
		}
		if err := p.writeTo(sb); err != nil {
			return err
		}
	}
	sb.WriteString("\n\\end{multicols}")
	return nil
}
