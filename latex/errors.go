package latex

import (
	"errors"
	"fmt"
)

// Error categories. Every validation failure wraps exactly one of these.
var (
	ErrInvalidArgument          = errors.New("latex: invalid argument")
	ErrInvalidRange             = errors.New("latex: value out of range")
	ErrConflictingConfiguration = errors.New("latex: conflicting configuration")
	ErrIncompatibleNesting      = errors.New("latex: incompatible nesting")
	ErrLengthMismatch           = errors.New("latex: length mismatch")
	ErrStructuralPlacement      = errors.New("latex: structural placement")
)

// Specific failures. errors.Is matches both the specific error and its
// category.
var (
	ErrInvalidChildType    = fmt.Errorf("%w: child is not a part", ErrInvalidArgument)
	ErrInvalidLevel        = fmt.Errorf("%w: section level must be 1, 2 or 3", ErrInvalidArgument)
	ErrInvalidScale        = fmt.Errorf("%w: scale must lie in (0, 1]", ErrInvalidRange)
	ErrInvalidColumnCount  = fmt.Errorf("%w: column count must be positive", ErrInvalidRange)
	ErrInvalidPageSource   = fmt.Errorf("%w: page source must be a file path", ErrInvalidArgument)
	ErrConflictingRowStyle = fmt.Errorf("%w: zebra striping and row colours are mutually exclusive", ErrConflictingConfiguration)
	ErrInvalidRow          = fmt.Errorf("%w: row needs a key", ErrInvalidArgument)
	ErrUnknownTableType    = fmt.Errorf("%w: unknown table type", ErrInvalidArgument)
	ErrAlreadyAttached     = fmt.Errorf("%w: part already belongs to a container", ErrStructuralPlacement)
	ErrCycle               = fmt.Errorf("%w: part would contain itself", ErrStructuralPlacement)
)

// PartError records which part and operation a validation failure came
// from.
type PartError struct {
	Part string
	Op   string
	Err  error
}

func (e *PartError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("%s %s: %v", e.Part, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

func partErr(part, op string, err error) error {
	return &PartError{Part: part, Op: op, Err: err}
}

// wrapf attaches detail to a sentinel while keeping it matchable.
func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
