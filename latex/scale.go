package latex

import (
	"strconv"
)

// checkScale reports whether f is a usable fraction of a page dimension.
func checkScale(what string, f float64) error {
	if !(f > 0 && f <= 1) {
		return wrapf(ErrInvalidScale, "%s %v", what, f)
	}
	return nil
}

// formatScale writes f in the shortest form that round-trips, so 1.0
// becomes "1" and 0.45 stays "0.45".
func formatScale(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
