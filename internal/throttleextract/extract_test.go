package throttleextract

import (
	"testing"

	"github.com/supamega9595/vid/internal/model"
)

const throttlingJS = `
nF=function(b){var c=[
"abcdefghij",
function(d){d.reverse()},
function(d,e){d.push(e)},
b,
[1,2,3],
function(d,e){e=(e%d.length+d.length)%d.length;var f=d[0];d[0]=d[e];d[e]=f}
];var plan=[[0,1],[1,0,2],[5,0,2]];var a=b.split("");a=nF(a);return a.join("")};
`

func TestFunctionName(t *testing.T) {
	name, err := FunctionName(throttlingJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "nF" {
		t.Errorf("name = %q, want nF", name)
	}
}

func TestArrayVarName(t *testing.T) {
	body, err := FunctionBody(throttlingJS, "nF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := ArrayVarName(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "c" {
		t.Errorf("array var = %q, want c", v)
	}
}

func TestParamName(t *testing.T) {
	p, err := ParamName(throttlingJS, "nF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "b" {
		t.Errorf("param name = %q, want b", p)
	}
}

func TestArrayLiteral(t *testing.T) {
	arr, err := ArrayLiteral(throttlingJS, "c", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arr) != 6 {
		t.Fatalf("got %d elements, want 6: %+v", len(arr), arr)
	}
	if arr[0].Kind != model.ElemString || arr[0].Str != "abcdefghij" {
		t.Errorf("element 0 = %+v, want string abcdefghij", arr[0])
	}
	if arr[1].Kind != model.ElemPrimitive || arr[1].Prim != model.KindReverse {
		t.Errorf("element 1 = %+v, want primitive reverse", arr[1])
	}
	if arr[2].Kind != model.ElemPrimitive || arr[2].Prim != model.KindPush {
		t.Errorf("element 2 = %+v, want primitive push", arr[2])
	}
	if arr[3].Kind != model.ElemNullSelf {
		t.Errorf("element 3 = %+v, want null-self", arr[3])
	}
	if arr[4].Kind != model.ElemArray || len(arr[4].Array) != 3 {
		t.Errorf("element 4 = %+v, want nested array of 3 ints", arr[4])
	}
	if arr[5].Kind != model.ElemPrimitive || arr[5].Prim != model.KindSwapZeroK {
		t.Errorf("element 5 = %+v, want primitive swap", arr[5])
	}
}

func TestPlan(t *testing.T) {
	plan, err := Plan("[[0,1],[1,0,2],[5,0,2]]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("got %d steps, want 3", len(plan))
	}
	if plan[0] != (model.Step{Op: 0, Arg: 1}) {
		t.Errorf("step 0 = %+v", plan[0])
	}
	if !plan[1].Binary || plan[1].Arg2 != 2 {
		t.Errorf("step 1 = %+v, want binary with Arg2=2", plan[1])
	}
}

func TestLocate(t *testing.T) {
	loc, err := Locate(throttlingJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.FuncName != "nF" {
		t.Errorf("FuncName = %q, want nF", loc.FuncName)
	}
	if loc.ArrayVar != "c" {
		t.Errorf("ArrayVar = %q, want c", loc.ArrayVar)
	}
	if len(loc.Array) != 6 {
		t.Errorf("Array len = %d, want 6", len(loc.Array))
	}
	if len(loc.Plan) != 3 {
		t.Errorf("Plan len = %d, want 3", len(loc.Plan))
	}
}
