// Package sigextract locates and parses the signature-deciphering pieces
// of an obfuscated player script: the initial function name, its
// transform plan (the ordered calls a ciphered signature is run through),
// and the transform map those calls are resolved against.
package sigextract

import (
	"log"
	"regexp"
	"strings"

	"github.com/supamega9595/vid/internal/cerr"
	"github.com/supamega9595/vid/internal/model"
	"github.com/supamega9595/vid/internal/scanner"
	"github.com/supamega9595/vid/internal/shape"
)

// jsBuiltins holds identifiers the initial-function-name search must
// never return even if a pattern happens to capture one; these are names
// a priority-5+ pattern can pick up from unrelated call sites.
var jsBuiltins = map[string]bool{
	"decodeURIComponent": true, "encodeURIComponent": true, "decodeURI": true,
	"encodeURI": true, "escape": true, "unescape": true, "parseInt": true,
	"parseFloat": true, "isNaN": true, "isFinite": true, "eval": true,
	"Function": true, "Object": true, "Array": true, "String": true,
	"Number": true, "Boolean": true, "Date": true, "Math": true, "JSON": true,
	"RegExp": true, "Error": true, "Promise": true, "Map": true, "Set": true,
	"console": true, "window": true, "document": true, "undefined": true,
	"null": true, "true": true, "false": true, "NaN": true, "Infinity": true,
	"this": true, "arguments": true, "prototype": true, "constructor": true,
	"toString": true, "valueOf": true, "hasOwnProperty": true, "length": true,
	"split": true, "join": true, "reverse": true, "splice": true, "slice": true,
	"concat": true, "push": true, "pop": true, "shift": true, "unshift": true,
}

// initialFnPatterns is checked in order, highest-confidence first: the
// literal signature-scrambling function definition, then its arrow-function
// spelling, then progressively more indirect call-site evidence.
var initialFnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[;\s])([a-zA-Z0-9_$]{2,})\s*=\s*function\s*\(\s*a\s*\)\s*\{\s*a\s*=\s*a\.split\s*\(\s*""\s*\)`),
	regexp.MustCompile(`var\s+([a-zA-Z0-9_$]{2,})\s*=\s*function\s*\(\s*a\s*\)\s*\{\s*a\s*=\s*a\.split\s*\(\s*""\s*\)`),
	regexp.MustCompile(`(?:^|[;\s])([a-zA-Z0-9_$]{2,})\s*=\s*a\s*=>\s*\{\s*a\s*=\s*a\.split\s*\(\s*""\s*\)`),
	regexp.MustCompile(`(?:^|[;\s])([a-zA-Z0-9_$]{2,})\s*=\s*function\s*\(\s*\w\s*\)\s*\{\s*\w\s*=\s*\w\.split\s*\(\s*""\s*\)`),
	regexp.MustCompile(`\b[cs]\s*&&\s*[adf]\.set\([^,]+\s*,\s*encodeURIComponent\s*\(\s*([a-zA-Z0-9_$]{2,})\s*\(`),
	regexp.MustCompile(`\bc\s*&&\s*d\.set\([^,]+\s*,\s*(?:encodeURIComponent\s*\(\s*)?([a-zA-Z0-9_$]{2,})\s*\(`),
	regexp.MustCompile(`\bm\s*=\s*([a-zA-Z0-9_$]{2,})\s*\(\s*decodeURIComponent\s*\(`),
	regexp.MustCompile(`(?:"|')signature(?:"|')\s*,\s*([a-zA-Z0-9_$]{2,})\s*\(`),
	regexp.MustCompile(`\.sig\s*\|\|\s*([a-zA-Z0-9_$]{2,})\s*\(`),
}

// InitialFunctionName finds the name of the function responsible for
// descrambling the signature.
func InitialFunctionName(js string) (string, error) {
	for _, re := range initialFnPatterns {
		m := re.FindStringSubmatch(js)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			if g != "" && !jsBuiltins[g] {
				return g, nil
			}
		}
	}
	return "", cerr.NotFound("InitialFunctionName", "initial function name (9 patterns)")
}

// transformPlanPatterns extracts the statement region of the initial
// function body between its "a.split" header and its "a.join" return,
// each candidate loosening the previous one's assumptions about
// whitespace and exact split/join spelling.
func transformPlanPatterns(name string) []*regexp.Regexp {
	n := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		regexp.MustCompile(n + `=function\(\w\)\{[^}]*?=\w\.split\([^)]*\);([^}]+);return \w\.join`),
		regexp.MustCompile(n + `=\w=>\{\w=\w\.split\([^)]*\);([^}]+);return \w\.join`),
		regexp.MustCompile(n + `\s*=\s*function\s*\(\s*\w\s*\)\s*\{[^}]*?split[^;]*;([^}]+);[^}]*?join`),
	}
}

// TransformPlan extracts the ordered list of obfuscated calls the initial
// function runs the signature through, e.g. ["DE.AJ(a,15)", "DE.VR(a,3)"].
// When no regex variant captures the statement region cleanly it falls
// back to a balanced-brace extraction of the whole function body and
// trims the split/return statements out by hand, matching the original's
// "very flexible pattern - just find the function and extract its body"
// last resort.
func TransformPlan(js, name string) (model.TransformPlan, error) {
	for _, re := range transformPlanPatterns(name) {
		m := re.FindStringSubmatch(js)
		if m != nil {
			return splitStatements(m[1]), nil
		}
	}

	idx := strings.Index(js, name+"=function")
	if idx < 0 {
		idx = strings.Index(js, "var "+name+"=function")
	}
	if idx < 0 {
		return nil, cerr.NotFound("TransformPlan", "function definition for "+name)
	}
	body, ok := scanner.ExtractBalancedBody(js, idx)
	if !ok {
		return nil, cerr.NotFound("TransformPlan", "balanced body for "+name)
	}
	log.Printf("[sigextract] falling back to brace-balance body extraction for %s", name)

	stmts := splitStatements(body)
	var calls []string
	for _, s := range stmts {
		if strings.Contains(s, ".split(") || strings.HasPrefix(s, "return ") {
			continue
		}
		calls = append(calls, s)
	}
	if len(calls) == 0 {
		return nil, cerr.NotFound("TransformPlan", "no calls left after split/return filtering")
	}
	return calls, nil
}

func splitStatements(region string) model.TransformPlan {
	var out model.TransformPlan
	for _, s := range strings.Split(region, ";") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ObjectVarName returns the obfuscated variable name the transform plan's
// calls are made through, e.g. "DE" in "DE.AJ(a,15)". It inspects the
// first plan entry only — every entry in a given plan is called through
// the same object.
func ObjectVarName(plan model.TransformPlan) (string, bool) {
	if len(plan) == 0 {
		return "", false
	}
	parsed, ok := scanner.ParseCall(plan[0])
	if !ok {
		return "", false
	}
	return parsed.ObjVar, true
}

var arrayDefPatterns = func(arrVar string) []*regexp.Regexp {
	v := regexp.QuoteMeta(arrVar)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?s)` + v + `\s*=\s*\[(.*?)\]`),
		regexp.MustCompile(`(?s)var\s+` + v + `\s*=\s*\[(.*?)\]`),
		regexp.MustCompile(`(?s)"` + v + `"\s*:\s*\[(.*?)\]`),
	}
}

// ResolveIndirection rewrites a transform plan whose calls go through an
// array indirection, e.g. "A1[G[4]](p,28)", into direct dotted calls
// through the function object, e.g. "A1.actualName(p,28)", by locating
// the G array literal and indexing into it. If the array literal can't be
// found, it falls back to resolving through the object definition
// directly: the array-indirected name is treated as a positional alias
// for the first function defined on the object, logging that the
// heuristic fired since this fallback can pick the wrong member when the
// object defines more than one function and the indirection isn't
// actually positional.
func ResolveIndirection(js string, plan model.TransformPlan) (model.TransformPlan, string, error) {
	first, ok := scanner.ParseCall(plan[0])
	if !ok || !first.Indirect {
		objVar, _ := ObjectVarName(plan)
		return plan, objVar, nil
	}

	var arrayContent string
	for _, re := range arrayDefPatterns(first.IndexVar) {
		if m := re.FindStringSubmatch(js); m != nil && strings.TrimSpace(m[1]) != "" {
			arrayContent = m[1]
			break
		}
	}

	if arrayContent == "" {
		log.Printf("[sigextract] no %s array literal found, falling back to first-function-in-object heuristic", first.IndexVar)
		return resolveFromObjectDefinition(js, plan, first.ObjVar)
	}

	items := scanner.SplitDepthZero(arrayContent)
	for i, it := range items {
		items[i] = strings.Trim(strings.TrimSpace(it), `"'`)
	}

	resolved := make(model.TransformPlan, 0, len(plan))
	indirectRe := regexp.MustCompile(`^(\w+)\[(\w+)\[(\d+)\]\]\((\w+(?:,-?\d+)?)\)$`)
	for _, call := range plan {
		m := indirectRe.FindStringSubmatch(call)
		if m == nil {
			resolved = append(resolved, call)
			continue
		}
		objVar, _, idxStr, argPart := m[1], m[2], m[3], m[4]
		idx := atoi(idxStr)
		if idx < 0 || idx >= len(items) {
			return nil, "", cerr.Invariant("array-indirection index out of range")
		}
		resolved = append(resolved, objVar+"."+items[idx]+"("+argPart+")")
	}
	return resolved, first.ObjVar, nil
}

// resolveFromObjectDefinition is the last-resort fallback: when the
// indirection array can't be located, assume the object being called
// through defines exactly the functions the plan needs and rewrite every
// indirected call to go through the first function name found in the
// object's own definition.
func resolveFromObjectDefinition(js string, plan model.TransformPlan, objVar string) (model.TransformPlan, string, error) {
	objBody, err := objectBody(js, objVar)
	if err != nil {
		return nil, "", err
	}
	members := scanner.SplitDepthZero(objBody)
	if len(members) == 0 {
		return nil, "", cerr.Invariant("object definition for " + objVar + " has no members")
	}
	firstName := strings.TrimSpace(strings.SplitN(members[0], ":", 2)[0])

	indirectRe := regexp.MustCompile(`^(\w+)\[(\w+)\[(\d+)\]\]\((\w+(?:,-?\d+)?)\)$`)
	resolved := make(model.TransformPlan, 0, len(plan))
	for _, call := range plan {
		m := indirectRe.FindStringSubmatch(call)
		if m == nil {
			resolved = append(resolved, call)
			continue
		}
		resolved = append(resolved, m[1]+"."+firstName+"("+m[4]+")")
	}
	return resolved, objVar, nil
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}

var objectDefPatterns = func(v string) []*regexp.Regexp {
	q := regexp.QuoteMeta(v)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?s)var\s+` + q + `=\{(.*?)\};`),
		regexp.MustCompile(`(?s)` + q + `=\{(.*?)\};`),
		regexp.MustCompile(`(?s)(?:var\s+)?` + q + `\s*=\s*\{\s*(.*?)\s*\};`),
	}
}

func objectBody(js, objVar string) (string, error) {
	for _, re := range objectDefPatterns(objVar) {
		if m := re.FindStringSubmatch(js); m != nil {
			return strings.ReplaceAll(m[1], "\n", " "), nil
		}
	}
	return "", cerr.NotFound("objectBody", "object literal for "+objVar)
}

// TransformMap extracts the transform object's members and assigns each a
// recognized primitive kind via the shape matcher, producing the
// obfuscated-name -> primitive lookup the interpreter needs.
func TransformMap(js, objVar string) (model.TransformMap, error) {
	body, err := objectBody(js, objVar)
	if err != nil {
		return nil, err
	}

	members := scanner.SplitDepthZero(body)
	out := make(model.TransformMap, len(members))
	for _, m := range members {
		name, fn, ok := strings.Cut(m, ":")
		if !ok || !strings.Contains(fn, "function(") {
			log.Printf("[sigextract] skipping malformed transform object member: %.60s", m)
			continue
		}
		out[strings.TrimSpace(name)] = shape.MatchSignature(fn)
	}
	if len(out) == 0 {
		return nil, cerr.Invariant("transform object for " + objVar + " yielded no members")
	}
	return out, nil
}
