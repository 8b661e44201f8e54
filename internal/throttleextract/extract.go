// Package throttleextract locates and parses the throttling ("n"
// parameter) machinery out of a player script: the heterogeneous function
// array the throttling VM operates on, and the index-tuple plan that
// drives it.
package throttleextract

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/supamega9595/vid/internal/cerr"
	"github.com/supamega9595/vid/internal/model"
	"github.com/supamega9595/vid/internal/scanner"
	"github.com/supamega9595/vid/internal/shape"
)

// fnNamePatterns locate the function responsible for computing the
// throttling parameter. Player scripts call it against the "n" query
// parameter value; the call site is the most reliable anchor since the
// function itself is just as obfuscated as everything else here.
var fnNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[a-zA-Z0-9_$]+&&\(b=([a-zA-Z0-9_$]{2,})\(b\)\)`),
	regexp.MustCompile(`\.get\("n"\)\)&&\(b=([a-zA-Z0-9_$]{2,})\(b\)\)`),
	regexp.MustCompile(`([a-zA-Z0-9_$]{2,})=function\(\w\)\{var \w=\w\.split\(""\)`),
	// The throttling function's own definition: it opens straight onto
	// its heterogeneous array literal rather than a `.split("")` call,
	// which is what distinguishes it syntactically from the signature
	// descrambler's initial function.
	regexp.MustCompile(`([a-zA-Z0-9_$]{2,})=function\(\w\)\{var \w=\[`),
}

// FunctionName returns the obfuscated name of the n-parameter transform
// function.
func FunctionName(js string) (string, error) {
	for _, re := range fnNamePatterns {
		if m := re.FindStringSubmatch(js); m != nil {
			return m[1], nil
		}
	}
	return "", cerr.NotFound("throttleextract.FunctionName", "n-parameter call site")
}

var arrayVarPattern = regexp.MustCompile(`var\s+(\w+)\s*=\s*\[`)

// ArrayVarName finds the array variable the named throttling function
// closes over, by looking for the first array literal declared in its
// body.
func ArrayVarName(fnBody string) (string, error) {
	m := arrayVarPattern.FindStringSubmatch(fnBody)
	if m == nil {
		return "", cerr.NotFound("throttleextract.ArrayVarName", "array declaration in function body")
	}
	return m[1], nil
}

// ParamName returns the named throttling function's sole declared
// parameter — the identifier the function's own array literal uses, as a
// bare element, to mark the slot the VM must treat as a self-reference to
// the live buffer rather than a literal value. This is read from the
// function's signature, not its body: the body is full of other nested
// function(...) literals (the array's own primitive closures) whose
// parameter names have nothing to do with the outer one.
func ParamName(js, name string) (string, error) {
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*=\s*function\s*\(\s*(\w+)\s*\)`)
	m := re.FindStringSubmatch(js)
	if m == nil {
		return "", cerr.NotFound("throttleextract.ParamName", "function signature for "+name)
	}
	return m[1], nil
}

// ArrayLiteral finds and parses the named array's top-level literal into a
// model.ThrottlingArray. Recognizing an element's kind is purely
// syntactic: an integer literal, a quoted string, a nested array literal,
// a function literal (dispatched through the shape matcher, falling back
// to a raw, uncallable entry when the body matches no known primitive
// shape), the enclosing function's own sequence-parameter name written as
// a bare element (the self-referencing "null" placeholder the VM resolves
// specially at dereference time), or anything else, kept as an opaque
// placeholder.
func ArrayLiteral(js, arrVar, paramName string) (model.ThrottlingArray, error) {
	idx := strings.Index(js, arrVar+"=[")
	if idx < 0 {
		idx = strings.Index(js, "var "+arrVar+"=[")
	}
	if idx < 0 {
		return nil, cerr.NotFound("throttleextract.ArrayLiteral", "literal for "+arrVar)
	}
	bracketStart := strings.Index(js[idx:], "[") + idx
	body, ok := extractBalancedBrackets(js, bracketStart)
	if !ok {
		return nil, cerr.Invariant("unbalanced array literal for " + arrVar)
	}

	arr, err := parseElements(body, paramName)
	if err != nil {
		return nil, err
	}
	return arr, nil
}

func parseElements(body, paramName string) (model.ThrottlingArray, error) {
	items := scanner.SplitDepthZero(body)
	out := make(model.ThrottlingArray, 0, len(items))
	for _, raw := range items {
		el, err := classify(strings.TrimSpace(raw), paramName)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

var intLiteralRe = regexp.MustCompile(`^-?\d+$`)

func classify(tok, paramName string) (model.Element, error) {
	switch {
	case paramName != "" && tok == paramName:
		return model.Element{Kind: model.ElemNullSelf}, nil

	case intLiteralRe.MatchString(tok):
		n, _ := strconv.Atoi(tok)
		return model.Element{Kind: model.ElemInt, Int: n}, nil

	case len(tok) >= 2 && (tok[0] == '"' || tok[0] == '\'') && tok[len(tok)-1] == tok[0]:
		return model.Element{Kind: model.ElemString, Str: tok[1 : len(tok)-1]}, nil

	case strings.HasPrefix(tok, "["):
		inner, ok := extractBalancedBrackets(tok, 0)
		if !ok {
			return model.Element{}, cerr.Invariant("unbalanced nested array element")
		}
		nested, err := parseElements(inner, paramName)
		if err != nil {
			return model.Element{}, err
		}
		return model.Element{Kind: model.ElemArray, Array: nested}, nil

	case strings.Contains(tok, "function("):
		if kind, ok := shape.MatchThrottling(tok); ok {
			return model.Element{Kind: model.ElemPrimitive, Prim: kind}, nil
		}
		log.Printf("[throttleextract] function element matched no known shape, keeping raw: %.80s", tok)
		return model.Element{Kind: model.ElemRaw, Raw: tok}, nil

	default:
		// void 0, undefined, a bare unrelated identifier, or any other
		// expression the VM never actually dereferences.
		return model.Element{Kind: model.ElemPlaceholder, Raw: tok}, nil
	}
}

func extractBalancedBrackets(s string, start int) (string, bool) {
	i := strings.IndexByte(s[start:], '[')
	if i < 0 {
		return "", false
	}
	open := start + i
	depth := 0
	var quote byte
	for j := open; j < len(s); j++ {
		c := s[j]
		if quote != 0 {
			if c == '\\' {
				j++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[open+1 : j], true
			}
		}
	}
	return "", false
}

// planTupleRe matches one plan entry: 2 or 3 comma-separated integers
// inside brackets, e.g. "[3,1]" or "[0,2,1]".
var planTupleRe = regexp.MustCompile(`\[\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*(\d+)\s*)?\]`)

// Plan parses the throttling plan literal — a JS array of 2- or
// 3-element index tuples — into a model.ThrottlingPlan. The first index
// is the opcode's position in the throttling array; the second is its
// first operand's position; the third, when present, is a second operand
// position and marks the step as a binary call.
func Plan(planLiteral string) (model.ThrottlingPlan, error) {
	matches := planTupleRe.FindAllStringSubmatch(planLiteral, -1)
	if matches == nil {
		return nil, cerr.NotFound("throttleextract.Plan", "index tuples")
	}
	out := make(model.ThrottlingPlan, 0, len(matches))
	for _, m := range matches {
		op, _ := strconv.Atoi(m[1])
		arg, _ := strconv.Atoi(m[2])
		step := model.Step{Op: op, Arg: arg}
		if m[3] != "" {
			arg2, _ := strconv.Atoi(m[3])
			step.Arg2 = arg2
			step.Binary = true
		}
		out = append(out, step)
	}
	return out, nil
}

// FunctionBody returns the balanced-brace body of the named function's
// definition.
func FunctionBody(js, name string) (string, error) {
	idx := strings.Index(js, name+"=function")
	if idx < 0 {
		idx = strings.Index(js, "var "+name+"=function")
	}
	if idx < 0 {
		return "", cerr.NotFound("throttleextract.FunctionBody", "function definition for "+name)
	}
	body, ok := scanner.ExtractBalancedBody(js, idx)
	if !ok {
		return "", cerr.Invariant("unbalanced body for " + name)
	}
	return body, nil
}

// planLiteralPattern locates the bracketed array-of-tuples the throttling
// plan is written as, anywhere a function body declares one: a run of two
// or more 2-or-3-element integer tuples back to back.
var planLiteralPattern = regexp.MustCompile(`\[(?:\s*\[\s*\d+\s*,\s*\d+\s*(?:,\s*\d+\s*)?\]\s*,?\s*){2,}\]`)

// PlanLiteral locates the plan's array-of-tuples literal within fnBody.
func PlanLiteral(fnBody string) (string, error) {
	m := planLiteralPattern.FindString(fnBody)
	if m == "" {
		return "", cerr.NotFound("throttleextract.PlanLiteral", "array-of-tuples literal")
	}
	return m, nil
}

// Located bundles everything extracted about the throttling machinery for
// a single player script.
type Located struct {
	FuncName string
	ArrayVar string
	Param    string
	Array    model.ThrottlingArray
	Plan     model.ThrottlingPlan
}

// Locate runs the full throttling extraction pipeline against js: function
// name, function body, array variable and parameter names, the array
// literal itself, and the plan literal.
func Locate(js string) (Located, error) {
	name, err := FunctionName(js)
	if err != nil {
		return Located{}, err
	}
	body, err := FunctionBody(js, name)
	if err != nil {
		return Located{}, err
	}
	arrVar, err := ArrayVarName(body)
	if err != nil {
		return Located{}, err
	}
	param, err := ParamName(js, name)
	if err != nil {
		return Located{}, err
	}
	arr, err := ArrayLiteral(js, arrVar, param)
	if err != nil {
		return Located{}, err
	}
	planLit, err := PlanLiteral(body)
	if err != nil {
		return Located{}, err
	}
	plan, err := Plan(planLit)
	if err != nil {
		return Located{}, err
	}
	return Located{FuncName: name, ArrayVar: arrVar, Param: param, Array: arr, Plan: plan}, nil
}
