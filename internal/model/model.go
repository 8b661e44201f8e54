// Package model holds the data types shared by the scanner, shape matcher,
// extractors, and interpreter: the transform map/plan and the throttling
// function array/plan described in spec section 3 of this repository's
// design notes.
package model

// PrimitiveKind tags a recognized transform primitive. The obfuscated
// script never names these — the shape matcher recognizes a primitive by
// the text of its body and assigns one of these tags.
type PrimitiveKind int

const (
	// KindUnknown is never assigned to a signature primitive (the shape
	// matcher always falls back to KindReverse for those); it marks a
	// throttling-array entry whose body matched no known shape and is
	// kept as a raw, uncallable string instead.
	KindUnknown PrimitiveKind = iota

	// Signature primitives (spec.md 4.1, first table).
	KindReverse
	KindSplice
	KindSwap

	// Throttling-only primitives (spec.md 4.1, second table).
	KindPush
	KindUnshiftRotate
	KindPrependRotate
	KindSwapZeroK
	KindNestedSplice
	KindCipherSubstitute
	KindJSSplice
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindReverse:
		return "reverse"
	case KindSplice:
		return "splice"
	case KindSwap:
		return "swap"
	case KindPush:
		return "push"
	case KindUnshiftRotate:
		return "unshift-rotate"
	case KindPrependRotate:
		return "prepend-rotate"
	case KindSwapZeroK:
		return "swap-zero-k"
	case KindNestedSplice:
		return "nested-splice"
	case KindCipherSubstitute:
		return "cipher-substitute"
	case KindJSSplice:
		return "js-splice"
	default:
		return "unknown"
	}
}

// Arity reports how many operands a primitive's VM call site carries: 0
// for the receiver-only reverse, 1 for everything else. The throttling VM
// does not consult it: a step's form comes from its plan tuple.
func (k PrimitiveKind) Arity() int {
	if k == KindReverse {
		return 0
	}
	return 1
}

// TransformMap is the obfuscated primitive name -> recognized primitive
// mapping extracted from a script's transform object (spec.md 4.4 step 5).
type TransformMap map[string]PrimitiveKind

// TransformPlan is the ordered, raw call-site text extracted from the
// initial function's body (spec.md 4.4 step 2), e.g. "DE.AJ(a,15)".
type TransformPlan []string

// Call is a transform-plan call site parsed into its primitive name and
// integer operand (spec.md 4.3 "Numeric literal at call site").
type Call struct {
	Name string
	Arg  int
}

// ElementKind tags one entry of a throttling function array (spec.md 4.6).
type ElementKind int

const (
	ElemInt ElementKind = iota
	ElemString
	ElemNullSelf
	ElemArray
	ElemPrimitive
	ElemRaw
	ElemPlaceholder
)

// Element is one entry of the heterogeneous throttling function array. Only
// the fields matching Kind are meaningful.
type Element struct {
	Kind ElementKind

	Int   int
	Str   string
	Array []Element
	Prim  PrimitiveKind
	Raw   string
}

// ThrottlingArray is the ordered heterogeneous array described in spec.md
// 4.6: integers, strings, the self-referencing null, nested arrays,
// primitives, and raw unmatched function bodies.
type ThrottlingArray []Element

// Step is one entry of the throttling plan: Op names the array index of
// the primitive to call; Arg is the array index of its first operand.
// Arg2 is only meaningful when Binary is true.
type Step struct {
	Op     int
	Arg    int
	Arg2   int
	Binary bool
}

// ThrottlingPlan is the ordered sequence of VM steps (spec.md 4.6).
type ThrottlingPlan []Step
