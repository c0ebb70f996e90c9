package latex

import (
	"fmt"
)

// EnvironmentKind names a wrapper applied to an [Environment].
type EnvironmentKind int

const (
	KindMinipage EnvironmentKind = iota
	KindCentering
	KindLandscape
	KindAdjustbox
	KindSidewaysTable
)

func (k EnvironmentKind) String() string {
	switch k {
	case KindMinipage:
		return "minipage"
	case KindCentering:
		return "center"
	case KindLandscape:
		return "landscape"
	case KindAdjustbox:
		return "adjustbox"
	case KindSidewaysTable:
		return "sidewaystable"
	}
	return fmt.Sprintf("EnvironmentKind(%d)", int(k))
}

// Environment is a container whose children are wrapped in one or more
// begin/end pairs. Wrappers nest in the order they are added: the first is
// outermost.
//
//	env, _ := latex.NewEnvironment(table)
//	env.AddCentering()
//	env.AddAdjustbox(1, 0.8)
//
// Some combinations cannot compile and are rejected with
// [ErrIncompatibleNesting]: a minipage holding a floating or multi-page
// table, an adjustbox around anything sideways or around a longtable, and
// a sidewaystable around another float. A nested environment wrapped in a
// sidewaystable counts as a sideways float. The rules hold for content
// added at any depth below a wrapper, whenever it is added.
type Environment struct {
	Container
	kinds []EnvironmentKind
}

// NewEnvironment creates an environment holding children.
func NewEnvironment(children ...Part) (*Environment, error) {
	e := &Environment{}
	if err := e.AddChild(children...); err != nil {
		return nil, err
	}
	return e, nil
}

// AddChild appends children after checking them against every wrapper
// already applied, here and in any enclosing environment.
func (e *Environment) AddChild(children ...Part) error {
	return e.addChildren(e, children)
}

// Kinds returns the applied wrappers, outermost first.
func (e *Environment) Kinds() []EnvironmentKind {
	return append([]EnvironmentKind(nil), e.kinds...)
}

// AddMinipage wraps the content in a minipage of width times the line
// width, padded by flexible space on both sides.
func (e *Environment) AddMinipage(width float64) error {
	if err := checkScale("minipage width", width); err != nil {
		return partErr("environment", "minipage", err)
	}
	if err := e.apply(KindMinipage); err != nil {
		return err
	}
	e.Base.Add("\n\\hfill\n")
	e.Base.Add(fmt.Sprintf("\\begin{minipage}{%s\\linewidth}\n\\centering\n", formatScale(width)))
	e.PushClose("\n\\end{minipage}\n\\hfill")
	return nil
}

// AddCentering centers the content.
func (e *Environment) AddCentering() {
	e.kinds = append(e.kinds, KindCentering)
	e.Base.Add("\n\\begin{center}\n")
	e.PushClose("\n\\end{center}\n")
}

// AddLandscape sets the content on landscape pages.
func (e *Environment) AddLandscape() {
	e.kinds = append(e.kinds, KindLandscape)
	e.Base.Add("\\begin{landscape}\n")
	e.PushClose("\n\\end{landscape}\n")
}

// AddAdjustbox shrinks the content to at most maxWidth times the line
// width and maxHeight times the text height.
func (e *Environment) AddAdjustbox(maxWidth, maxHeight float64) error {
	if err := checkScale("adjustbox width", maxWidth); err != nil {
		return partErr("environment", "adjustbox", err)
	}
	if err := checkScale("adjustbox height", maxHeight); err != nil {
		return partErr("environment", "adjustbox", err)
	}
	if err := e.apply(KindAdjustbox); err != nil {
		return err
	}
	e.Base.Add(fmt.Sprintf("\\begin{adjustbox}{max width=%s\\linewidth, max totalheight=%s\\textheight}\n",
		formatScale(maxWidth), formatScale(maxHeight)))
	e.PushClose("\n\\end{adjustbox}\n")
	return nil
}

// AddSidewaysTable rotates the content as a sideways float.
func (e *Environment) AddSidewaysTable() error {
	if err := e.apply(KindSidewaysTable); err != nil {
		return err
	}
	e.Base.Add("\\begin{sidewaystable}\n")
	e.PushClose("\n\\end{sidewaystable}\n")
	return nil
}

func (e *Environment) apply(k EnvironmentKind) error {
	if err := checkWrap(k, e.kinds, e.children); err != nil {
		return err
	}
	e.kinds = append(e.kinds, k)
	if err := checkEnclosing(e.parent, []Part{e}); err != nil {
		e.kinds = e.kinds[:len(e.kinds)-1]
		return err
	}
	return nil
}

// floats reports whether a sidewaystable wrapper has been applied.
func (e *Environment) floats() bool {
	for _, k := range e.kinds {
		if k == KindSidewaysTable {
			return true
		}
	}
	return false
}

// checkWrap reports whether wrapper k may enclose children given the
// wrappers already applied.
func checkWrap(k EnvironmentKind, applied []EnvironmentKind, children []Part) error {
	fail := func(format string, args ...any) error {
		return partErr("environment", k.String(), wrapf(ErrIncompatibleNesting, format, args...))
	}

	switch k {
	case KindAdjustbox:
		for _, a := range applied {
			if a == KindSidewaysTable {
				return fail("adjustbox inside sidewaystable")
			}
		}
	case KindSidewaysTable:
		for _, a := range applied {
			if a == KindAdjustbox || a == KindMinipage {
				return fail("sidewaystable inside %s", a)
			}
		}
	}

	var err error
	for _, child := range children {
		walk(child, func(p Part) {
			if err != nil {
				return
			}
			if env, ok := p.(*Environment); ok {
				switch k {
				case KindMinipage, KindAdjustbox, KindSidewaysTable:
					if env.floats() {
						err = fail("%s cannot hold a nested sidewaystable", k)
					}
				}
				return
			}
			t, ok := p.(*Table)
			if !ok {
				return
			}
			switch k {
			case KindMinipage:
				if t.kind != Tabular {
					err = fail("minipage holds a %s; only tabular fits", t.kind)
				}
			case KindAdjustbox:
				if t.kind == SidewaysTable || t.kind == Longtable {
					err = fail("adjustbox cannot hold a %s", t.kind)
				}
			case KindSidewaysTable:
				if t.kind != Tabular {
					err = fail("sidewaystable holds a %s; only tabular fits", t.kind)
				}
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
