package interpreter

import (
	"testing"

	"github.com/supamega9595/vid/internal/model"
)

// buildPlan constructs a synthetic transform map/plan pair for the given
// primitive sequence using a fixed object variable "DE", the argument "a",
// and distinct 3-letter member names, mirroring the shape an obfuscated script's
// object literal and call sites would take.
func buildPlan(kinds []model.PrimitiveKind, args []int) (model.TransformMap, model.TransformPlan) {
	tmap := make(model.TransformMap, len(kinds))
	plan := make(model.TransformPlan, 0, len(kinds))
	names := []string{"AJ", "VR", "BK", "QX"}
	for i, k := range kinds {
		name := names[i%len(names)] + string(rune('a'+i))
		tmap[name] = k
		plan = append(plan, "DE."+name+"(a,"+itoa(args[i])+")")
	}
	return tmap, plan
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestApplySignaturePlan_ScenarioOne(t *testing.T) {
	// spec.md §8 scenario 1: swap 2, reverse, splice 1 over "ABCDEF".
	tmap, plan := buildPlan(
		[]model.PrimitiveKind{model.KindSwap, model.KindReverse, model.KindSplice},
		[]int{2, 0, 1},
	)
	parser := NewCallParser()

	got, err := ApplySignaturePlan(plan, tmap, parser, "ABCDEF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "EDABC" {
		t.Errorf("got %q, want %q", got, "EDABC")
	}
}

func TestApplySignaturePlan_DoubleReverseIsIdentity(t *testing.T) {
	tmap, plan := buildPlan(
		[]model.PrimitiveKind{model.KindReverse, model.KindReverse},
		[]int{0, 0},
	)
	parser := NewCallParser()

	for _, s := range []string{"hello world", "a", ""} {
		got, err := ApplySignaturePlan(plan, tmap, parser, s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != s {
			t.Errorf("double reverse of %q: got %q", s, got)
		}
	}
}

func TestApplySignaturePlan_SpliceZeroIsNoop(t *testing.T) {
	tmap, plan := buildPlan([]model.PrimitiveKind{model.KindSplice}, []int{0})
	parser := NewCallParser()

	got, err := ApplySignaturePlan(plan, tmap, parser, "xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "xyz" {
		t.Errorf("got %q, want %q", got, "xyz")
	}
}

func TestApplySignaturePlan_SwapModuloLength(t *testing.T) {
	// swap 3 over "ABC" (len 3, 3 mod 3 = 0) is a no-op.
	tmap, plan := buildPlan([]model.PrimitiveKind{model.KindSwap}, []int{3})
	parser := NewCallParser()

	got, err := ApplySignaturePlan(plan, tmap, parser, "ABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ABC" {
		t.Errorf("got %q, want %q", got, "ABC")
	}
}

func TestApplySignaturePlan_Deterministic(t *testing.T) {
	tmap, plan := buildPlan(
		[]model.PrimitiveKind{model.KindSwap, model.KindReverse, model.KindSplice},
		[]int{2, 0, 1},
	)
	parser := NewCallParser()

	first, err := ApplySignaturePlan(plan, tmap, parser, "ABCDEF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := ApplySignaturePlan(plan, tmap, parser, "ABCDEF")
		if err != nil {
			t.Fatalf("unexpected error on rerun %d: %v", i, err)
		}
		if got != first {
			t.Errorf("run %d diverged: got %q, want %q", i, got, first)
		}
	}
}

func TestApplySignaturePlan_LengthLaw(t *testing.T) {
	tmap, plan := buildPlan(
		[]model.PrimitiveKind{model.KindSplice, model.KindReverse, model.KindSplice},
		[]int{3, 0, 2},
	)
	parser := NewCallParser()

	in := "ABCDEFGHIJ"
	got, err := ApplySignaturePlan(plan, tmap, parser, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLen := len(in) - 3 - 2
	if len(got) != wantLen {
		t.Errorf("length law violated: got len %d, want %d", len(got), wantLen)
	}
}

func TestApplySignaturePlan_UnknownMemberFails(t *testing.T) {
	tmap := model.TransformMap{"AJ": model.KindReverse}
	plan := model.TransformPlan{"DE.ZZ(a,0)"}
	parser := NewCallParser()

	if _, err := ApplySignaturePlan(plan, tmap, parser, "abc"); err == nil {
		t.Fatal("expected error for unknown transform-map member, got nil")
	}
}

func TestApplySignaturePlan_UnparsableCallFails(t *testing.T) {
	tmap := model.TransformMap{"AJ": model.KindReverse}
	plan := model.TransformPlan{"not a call at all"}
	parser := NewCallParser()

	if _, err := ApplySignaturePlan(plan, tmap, parser, "abc"); err == nil {
		t.Fatal("expected error for unparsable call, got nil")
	}
}

func TestCallParser_MemoizesAcrossCalls(t *testing.T) {
	parser := NewCallParser()
	call := "DE.AJ(a,15)"

	first, ok := parser.Parse(call)
	if !ok {
		t.Fatal("expected call to parse")
	}
	second, ok := parser.Parse(call)
	if !ok {
		t.Fatal("expected cached call to parse")
	}
	if first != second {
		t.Errorf("cached parse diverged: %+v vs %+v", first, second)
	}
	if cached, ok := parser.cache[call]; !ok || cached != first {
		t.Errorf("expected %q to be memoized, cache = %+v", call, parser.cache)
	}
}
