package interpreter

import (
	"fmt"
	"strings"

	"github.com/supamega9595/vid/internal/cerr"
	"github.com/supamega9595/vid/internal/model"
	"github.com/supamega9595/vid/internal/primitive"
)

// deref resolves array[idx] against the throttling array, with the
// self-referencing null slot special-cased: rather than embed a literal
// pointer cycle in model.Element (the array containing an element that
// points back at the array containing it), a null-self slot is resolved
// here, at the moment it's actually read, into a snapshot of the live
// sequence buffer wrapped as a nested array element. This keeps Element a
// plain value type with no cycles while still giving a step that
// dereferences the null-self slot access to the buffer's current state.
func deref(array model.ThrottlingArray, idx int, buf *[]model.Element) (model.Element, error) {
	if idx < 0 || idx >= len(array) {
		return model.Element{}, cerr.Invariant(fmt.Sprintf("throttling array index out of range: %d", idx))
	}
	el := array[idx]
	if el.Kind == model.ElemNullSelf {
		return model.Element{Kind: model.ElemArray, Array: append([]model.Element(nil), *buf...)}, nil
	}
	return el, nil
}

// Execute runs a throttling plan against a throttling array to compute the
// deciphered "n" sequence. seq is split into single-character string
// elements to form the mutable buffer every array-level primitive
// mutates; the plan's steps call the array's recognized primitives
// against that buffer, each step naming the array index of the primitive
// to call and the array index (or indices) of its operand(s).
func Execute(array model.ThrottlingArray, plan model.ThrottlingPlan, seq string) (string, error) {
	buf := make([]model.Element, 0, len(seq))
	for _, r := range seq {
		buf = append(buf, model.Element{Kind: model.ElemString, Str: string(r)})
	}

	for _, step := range plan {
		opEl, err := deref(array, step.Op, &buf)
		if err != nil {
			return "", err
		}
		if opEl.Kind != model.ElemPrimitive {
			return "", cerr.Invariant(fmt.Sprintf("throttling step opcode at index %d is not callable", step.Op))
		}

		operand, err := deref(array, step.Arg, &buf)
		if err != nil {
			return "", err
		}

		primitive.ApplyThrottlingUnary(opEl.Prim, &buf, operand)

		// step.Arg2/Binary is accepted for fidelity with the plan's
		// 2-or-3-element tuple shape, but none of the recognized
		// throttling primitives currently take a second positional
		// operand; a future primitive that needs one can read it here.
		_ = step.Arg2
	}

	return joinElements(buf), nil
}

func joinElements(buf []model.Element) string {
	var sb strings.Builder
	for _, el := range buf {
		if el.Kind == model.ElemString {
			sb.WriteString(el.Str)
		}
	}
	return sb.String()
}
