// Package interpreter runs an already-extracted transform plan (or
// throttling plan) against its input: turning the static data the
// extractor packages produced into the actual deciphered output.
package interpreter

import (
	"sync"

	"github.com/supamega9595/vid/internal/cerr"
	"github.com/supamega9595/vid/internal/model"
	"github.com/supamega9595/vid/internal/primitive"
	"github.com/supamega9595/vid/internal/scanner"
)

// CallParser memoizes the parse of a transform-plan call string into its
// object/member/arg parts. It is scoped to a single Cipher instance — the
// call text is always the same small, fixed set for a given player
// release, so repeated decipher calls against the same instance reuse the
// parse instead of re-running the call-site regex every time.
type CallParser struct {
	mu    sync.Mutex
	cache map[string]scanner.ParsedCall
}

// NewCallParser returns an empty, ready-to-use CallParser.
func NewCallParser() *CallParser {
	return &CallParser{cache: make(map[string]scanner.ParsedCall)}
}

// Parse returns the parsed form of call, computing and caching it on
// first use.
func (p *CallParser) Parse(call string) (scanner.ParsedCall, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pc, ok := p.cache[call]; ok {
		return pc, true
	}
	pc, ok := scanner.ParseCall(call)
	if ok {
		p.cache[call] = pc
	}
	return pc, ok
}

// ApplySignaturePlan runs every call in plan against sig in order, using
// tmap to resolve each call's member name to a recognized primitive, and
// returns the deciphered signature.
func ApplySignaturePlan(plan model.TransformPlan, tmap model.TransformMap, parser *CallParser, sig string) (string, error) {
	buf := []rune(sig)

	for _, call := range plan {
		parsed, ok := parser.Parse(call)
		if !ok {
			return "", cerr.Invariant("transform plan call did not match any known call shape: " + call)
		}
		kind, ok := tmap[parsed.Member]
		if !ok {
			return "", cerr.Invariant("transform plan referenced unknown member: " + parsed.Member)
		}
		buf = primitive.ApplySignature(kind, buf, parsed.Arg)
	}

	return string(buf), nil
}
