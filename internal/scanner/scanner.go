// Package scanner provides the low-level text-scanning primitives every
// extractor in this module is built from: balanced-brace body extraction,
// depth-tracked comma splitting (so a comma inside a nested function body
// does not split an object literal in the wrong place), and the call-site
// regular expressions used to recognize a transform-plan entry in any of
// the three shapes an obfuscated script writes it in.
package scanner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/supamega9595/vid/internal/model"
)

// ExtractBalancedBody returns the text between the first "{" at or after
// start and its matching "}", both delimiters excluded. It tracks simple
// single- and double-quoted string literals so a brace inside a string
// does not perturb the depth count. ok is false if start has no opening
// brace reachable, or the braces never balance before the string ends.
func ExtractBalancedBody(s string, start int) (body string, ok bool) {
	i := strings.IndexByte(s[start:], '{')
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : j], true
			}
		}
	}
	return "", false
}

// SplitDepthZero splits s on commas that occur outside any nested brace,
// bracket, or paren. Used to split an object literal's body into its
// member definitions, and a throttling array literal into its elements,
// without being fooled by commas inside a member's own function body.
func SplitDepthZero(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	var quote byte

	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			parts = append(parts, t)
		}
		cur.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == '\\' {
				if i+1 < len(s) {
					i++
					cur.WriteByte(s[i])
				}
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
			cur.WriteByte(c)
		case '{', '[', '(':
			depth++
			cur.WriteByte(c)
		case '}', ']', ')':
			depth--
			cur.WriteByte(c)
		case ',':
			if depth == 0 {
				flush()
				continue
			}
			cur.WriteByte(c)
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}

// Call-site shapes a transform-plan entry may take:
//
//	DE.AJ(a,15)       dotted property access
//	DE["AJ"](a,15)    bracketed string property access
//	DE[G[4]](p,28)    array-indirected property access
var (
	dottedCallRe    = regexp.MustCompile(`^(\w+)\.(\w+)\(\w+(?:,(-?\d+))?\)$`)
	bracketCallRe   = regexp.MustCompile(`^(\w+)\["([^"]+)"\]\(\w+(?:,(-?\d+))?\)$`)
	indirectCallRe  = regexp.MustCompile(`^(\w+)\[(\w+)\[(\d+)\]\]\(\w+(?:,(-?\d+))?\)$`)
)

// ParseCall parses a single transform-plan entry into the object variable
// it is called through, the member name (or, for the indirect shape, the
// index array variable and index), and the numeric argument at the call
// site. ok is false if none of the three shapes match.
type ParsedCall struct {
	ObjVar    string
	Member    string // empty for the indirect shape
	IndexVar  string // set only for the indirect shape
	Index     int    // set only for the indirect shape
	Indirect  bool
	Arg       int
	HasArg    bool
}

func ParseCall(call string) (ParsedCall, bool) {
	call = strings.TrimSpace(call)

	if m := dottedCallRe.FindStringSubmatch(call); m != nil {
		return ParsedCall{ObjVar: m[1], Member: m[2], Arg: atoiOr0(m[3]), HasArg: m[3] != ""}, true
	}
	if m := bracketCallRe.FindStringSubmatch(call); m != nil {
		return ParsedCall{ObjVar: m[1], Member: m[2], Arg: atoiOr0(m[3]), HasArg: m[3] != ""}, true
	}
	if m := indirectCallRe.FindStringSubmatch(call); m != nil {
		idx, _ := strconv.Atoi(m[3])
		return ParsedCall{ObjVar: m[1], IndexVar: m[2], Index: idx, Indirect: true, Arg: atoiOr0(m[4]), HasArg: m[4] != ""}, true
	}
	return ParsedCall{}, false
}

func atoiOr0(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ToModelCall converts a parsed dotted/bracketed call (never an unresolved
// indirect one — callers resolve indirection to a member name first) into
// the model.Call the interpreter consumes.
func (p ParsedCall) ToModelCall() model.Call {
	return model.Call{Name: p.Member, Arg: p.Arg}
}
