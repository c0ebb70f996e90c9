// Package escape converts raw text into LaTeX-safe text.
//
// Escaping is a single pass over the input: every rune found in the
// substitution table is replaced, every other rune is copied unchanged.
// Replacements are never rescanned, so escaping an already escaped string
// escapes it again:
//
//	escape.Escape("50%")          // 50\%
//	escape.Escape(`50\%`)         // 50\\%
//
// The backslash itself is not in the table, which lets callers pass
// through pre-built markup fragments that contain commands.
package escape

import (
	"io"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// replacements maps special runes to their LaTeX-safe form.
var replacements = map[rune]string{
	'&':      `\&`,
	'%':      `\%`,
	'$':      `\$`,
	'#':      `\#`,
	'_':      `\_`,
	'{':      `\{`,
	'}':      `\}`,
	'~':      `\textasciitilde{}`,
	'^':      `\^{}`,
	'-':      `{-}`,
	'\u00a0': `~`,
	'[':      `{[}`,
	']':      `{]}`,
}

// Replacement returns the escaped form of r and whether r is special.
func Replacement(r rune) (string, bool) {
	s, ok := replacements[r]
	return s, ok
}

// Transformer is a transform.Transformer applying the substitution table.
// It is stateless and safe for concurrent use.
type Transformer struct {
	transform.NopResetter
}

// Transform implements transform.Transformer.
func (Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := rune(src[nSrc]), 1
		if r >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r, size = utf8.DecodeRune(src[nSrc:])
		}

		out := src[nSrc : nSrc+size]
		if rep, ok := replacements[r]; ok {
			if nDst+len(rep) > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], rep)
			nSrc += size
			continue
		}

		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// Escape returns s with every special character replaced.
// Escape is total: invalid UTF-8 is copied through byte for byte.
func Escape(s string) string {
	if !needsEscape(s) {
		return s
	}
	out, _, err := transform.String(Transformer{}, s)
	if err != nil {
		// Transformer never reports errors other than short buffers,
		// which transform.String handles internally.
		return s
	}
	return out
}

// NewWriter returns a writer that escapes everything written to it
// before passing it to w. Close must be called to flush a trailing
// partial rune.
func NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, Transformer{})
}

func needsEscape(s string) bool {
	for _, r := range s {
		if _, ok := replacements[r]; ok {
			return true
		}
	}
	return false
}
