package primitive

import "github.com/supamega9595/vid/internal/model"

// cipherAlphabet is the 64-character substitution table used by the
// throttling cipher-substitute primitive.
const cipherAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func indexOf(s string, r rune) int {
	for i, c := range s {
		if c == r {
			return i
		}
	}
	return -1
}

func modLen(e, length int) int {
	if length == 0 {
		return 0
	}
	m := (e%length + length) % length
	return m
}

// ThrottlingReverse reverses d in place.
func ThrottlingReverse(d *[]model.Element) {
	s := *d
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ThrottlingPush appends e onto d.
func ThrottlingPush(d *[]model.Element, e model.Element) {
	*d = append(*d, e)
}

// ThrottlingModFunc returns e wrapped into [0, len(d)) using JS's modulo
// convention (always non-negative), as used by several of the primitives
// below before they touch d.
func ThrottlingModFunc(d []model.Element, e int) int {
	return modLen(e, len(d))
}

// ThrottlingUnshift rotates d right by e positions (e taken mod len(d)).
func ThrottlingUnshift(d *[]model.Element, e int) {
	s := *d
	n := len(s)
	if n == 0 {
		return
	}
	k := modLen(e, n)
	if k == 0 {
		return
	}
	rotated := make([]model.Element, n)
	copy(rotated, s[n-k:])
	copy(rotated[k:], s[:n-k])
	*d = rotated
}

// ThrottlingCipherFunction enciphers d (a list of single-character string
// elements) against e, producing a new list of the same length. f starts
// at 96 and decrements once per element, mirroring the script's running
// counter. The "this" sequence is seeded with e and grows by one
// computed character per element processed, exactly as the script's own
// closure pushes onto its "this" array as it goes. Once m runs past the
// seed's length, this[m] reads back an output this function itself
// produced on an earlier index rather than the seed.
func ThrottlingCipherFunction(d *[]model.Element, e string) {
	s := *d
	this := []rune(e)
	out := make([]model.Element, len(s))
	f := 96
	for m, el := range s {
		var l rune
		if el.Kind == model.ElemString && len(el.Str) > 0 {
			l = []rune(el.Str)[0]
		}
		var thisM rune
		if m < len(this) {
			thisM = this[m]
		}
		idx := modLen(indexOf(cipherAlphabet, l)-indexOf(cipherAlphabet, thisM)+m-32+f, len(cipherAlphabet))
		c := cipherAlphabet[idx]
		this = append(this, rune(c))
		out[m] = model.Element{Kind: model.ElemString, Str: string(c)}
		f--
	}
	*d = out
}

// JSSplice reproduces javascript's Array.prototype.splice, including the
// original implementation's negative-start handling, which computes
// len(arr) - start instead of len(arr) + start for a negative start and so
// does not behave like real JS splice on negative indices. That quirk is
// preserved deliberately: scripts observed in the wild never drive this
// primitive with a negative start, so the deviation is inert in practice,
// and "fixing" it would diverge from the behavior this package was
// modeled on.
func JSSplice(arr *[]model.Element, start, deleteCount int, hasDeleteCount bool, items ...model.Element) []model.Element {
	s := *arr
	n := len(s)

	if start > n {
		start = n
	}
	if start < 0 {
		start = n - start
	}

	if !hasDeleteCount || deleteCount >= n-start {
		deleteCount = n - start
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	end := start + deleteCount
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	if start < 0 {
		start = 0
	}

	deleted := append([]model.Element(nil), s[start:end]...)

	newArr := make([]model.Element, 0, n-deleteCount+len(items))
	newArr = append(newArr, s[:start]...)
	newArr = append(newArr, items...)
	newArr = append(newArr, s[end:]...)

	*arr = newArr
	return deleted
}

// ThrottlingNestedSplice swaps elements 0 and e (e taken mod len(d)) via
// two js_splice calls, matching the original's "looks like a swap but
// keep the splice calls in case of an edge case" shape.
func ThrottlingNestedSplice(d *[]model.Element, e int) {
	e = modLen(e, len(*d))
	first := (*d)[0]
	inner := JSSplice(d, e, 1, true, first)
	JSSplice(d, 0, 1, true, inner[0])
}

// ThrottlingPrepend moves the last e elements of d (e taken mod len(d)) to
// the front, preserving their order.
func ThrottlingPrepend(d *[]model.Element, e int) {
	s := *d
	n := len(s)
	if n == 0 {
		return
	}
	k := modLen(e, n)
	if k == 0 {
		return
	}
	rotated := make([]model.Element, n)
	copy(rotated, s[n-k:])
	copy(rotated[k:], s[:n-k])
	*d = rotated
}

// ThrottlingSwap exchanges d[0] and d[e] in place (e taken mod len(d)).
func ThrottlingSwap(d *[]model.Element, e int) {
	s := *d
	if len(s) == 0 {
		return
	}
	e = modLen(e, len(s))
	s[0], s[e] = s[e], s[0]
}

// ApplyThrottlingUnary runs a unary throttling primitive (receiver plus a
// single element operand) against d.
func ApplyThrottlingUnary(kind model.PrimitiveKind, d *[]model.Element, e model.Element) {
	switch kind {
	case model.KindPush:
		ThrottlingPush(d, e)
	case model.KindUnshiftRotate:
		ThrottlingUnshift(d, elemInt(e))
	case model.KindPrependRotate:
		ThrottlingPrepend(d, elemInt(e))
	case model.KindSwapZeroK:
		ThrottlingSwap(d, elemInt(e))
	case model.KindNestedSplice:
		ThrottlingNestedSplice(d, elemInt(e))
	case model.KindCipherSubstitute:
		ThrottlingCipherFunction(d, e.Str)
	case model.KindJSSplice:
		JSSplice(d, elemInt(e), 0, false)
	case model.KindReverse:
		ThrottlingReverse(d)
	}
}

func elemInt(e model.Element) int {
	if e.Kind == model.ElemInt {
		return e.Int
	}
	return 0
}
