// Package primitive implements the small, fixed library of transform
// operations that every obfuscated player script's cipher boils down to:
// reverse, splice, and swap for signatures; a larger set of related
// operations for throttling sequences. None of these take their real
// names from the script — the shape matcher assigns a model.PrimitiveKind
// to a recognized function body, and this package is what actually runs
// when that kind is invoked.
package primitive

import "github.com/supamega9595/vid/internal/model"

// Reverse reverses buf in place.
func Reverse(buf []rune) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Splice removes the first n runes of buf, returning the shortened slice.
// n is clamped to len(buf); a zero or negative n is a no-op.
func Splice(buf []rune, n int) []rune {
	if n <= 0 {
		return buf
	}
	if n > len(buf) {
		n = len(buf)
	}
	return buf[n:]
}

// Swap exchanges buf[0] with buf[n % len(buf)].
func Swap(buf []rune, n int) {
	if len(buf) == 0 {
		return
	}
	k := n % len(buf)
	if k < 0 {
		k += len(buf)
	}
	buf[0], buf[k] = buf[k], buf[0]
}

// ApplySignature runs a single transform-plan call against buf, returning
// the (possibly shortened) buffer. Splice is the only primitive that
// changes the buffer's length; reverse and swap always return buf itself.
func ApplySignature(kind model.PrimitiveKind, buf []rune, arg int) []rune {
	switch kind {
	case model.KindSplice:
		return Splice(buf, arg)
	case model.KindSwap:
		Swap(buf, arg)
		return buf
	default:
		// KindReverse, and the shape matcher's permissive fallback for
		// anything a signature primitive could be.
		Reverse(buf)
		return buf
	}
}
