// Package shape recognizes a transform primitive by the shape of its
// function body rather than its (obfuscated, meaningless) name, mirroring
// pytube's map_functions: a prioritized list of regular expressions, tight
// patterns first, looser variants after, checked in order against the
// body text until one matches.
package shape

import (
	"log"
	"regexp"

	"github.com/supamega9595/vid/internal/model"
)

type rule struct {
	pattern *regexp.Regexp
	kind    model.PrimitiveKind
}

// signatureRules is checked top to bottom; the first match wins. The
// ordering mirrors the original: exact single-letter forms first, then
// progressively more permissive variants of the same three shapes.
var signatureRules = []rule{
	{regexp.MustCompile(`\{\s*\w\.reverse\(\)\s*\}`), model.KindReverse},
	{regexp.MustCompile(`\{\s*\w\.splice\(0,\s*\w\)\s*\}`), model.KindSplice},
	{regexp.MustCompile(`\{\s*var\s+\w=\w\[0\];\w\[0\]=\w\[\w%\w\.length\];\w\[\w\]=\w\s*\}`), model.KindSwap},
	{regexp.MustCompile(`\{\s*var\s+\w=\w\[0\];\w\[0\]=\w\[\w%\w\.length\];\w\[\w%\w\.length\]=\w\s*\}`), model.KindSwap},
	{regexp.MustCompile(`function\([^)]*\)\s*\{\s*\w+\.reverse\(\)\s*\}`), model.KindReverse},
	{regexp.MustCompile(`\{\s*\w+\.reverse\(\)\s*\}`), model.KindReverse},
	{regexp.MustCompile(`function\([^)]*\)\s*\{\s*\w+\.splice\(0,\s*\w+\)\s*\}`), model.KindSplice},
	{regexp.MustCompile(`\{\s*\w+\.splice\(0,\s*\w+\)\s*\}`), model.KindSplice},
	{regexp.MustCompile(`function\([^)]*\)\s*\{\s*var\s+\w+=\w+\[0\];\w+\[0\]=\w+\[\w+%\w+\.length\];\w+\[\w+\]=\w+\s*\}`), model.KindSwap},
	{regexp.MustCompile(`\{\s*var\s+\w+=\w+\[0\];\w+\[0\]=\w+\[\w+%\w+\.length\];\w+\[\w+\]=\w+\s*\}`), model.KindSwap},
}

// MatchSignature returns the primitive kind whose shape matches body. When
// nothing matches — a truncated or unrecognized function, including the
// bare "function(...)" shell left by the prior rules failing — it falls
// back to KindReverse, the original's documented "most common case"
// default, logging that the fallback fired.
func MatchSignature(body string) model.PrimitiveKind {
	for _, r := range signatureRules {
		if r.pattern.MatchString(body) {
			return r.kind
		}
	}
	log.Printf("[shape] no signature pattern matched, defaulting to reverse: %.120s", body)
	return model.KindReverse
}

// throttlingRules mirrors the shapes the throttling primitives are known
// to take. Grounded directly on the (unreachable, left in place for
// documentation only) array-classifying mapper in pytube's
// get_throttling_function_array. Checked top to bottom, first match wins:
// the unshift-rotate loop first, then the plain reverse, push and swap
// shapes, then cipher-substitute, nested-splice, prepend-rotate, the
// loop-form reverse, and js-splice last.
var throttlingRules = []rule{
	{regexp.MustCompile(`\{for\(\w=\(\w%\w\.length\+\w\.length\)%\w\.length;\w--;\)\w\.unshift\(\w\.pop\(\)\)\}`), model.KindUnshiftRotate},
	{regexp.MustCompile(`\{\w\.reverse\(\)\}`), model.KindReverse},
	{regexp.MustCompile(`\{\w\.push\(\w\)\}`), model.KindPush},
	{regexp.MustCompile(`;var\s\w=\w\[0\];\w\[0\]=\w\[\w\];\w\[\w\]=\w\}`), model.KindSwapZeroK},
	{regexp.MustCompile(`case\s\d+`), model.KindCipherSubstitute},
	{regexp.MustCompile(`\w\.splice\(0,1,\w\.splice\(\w,1,\w\[0\]\)\[0\]\)`), model.KindNestedSplice},
	{regexp.MustCompile(`\w\.splice\(-\w\)\.reverse\(\)\.forEach\(function\(\w\)\{\w\.unshift\(\w\)\}\)`), model.KindPrependRotate},
	{regexp.MustCompile(`for\(var \w=\w\.length;\w;\)\w\.push\(\w\.splice\(--\w,1\)\[0\]\)\}`), model.KindReverse},
	{regexp.MustCompile(`;\w\.splice\(\w,1\)\}`), model.KindJSSplice},
}

// MatchThrottling returns the primitive kind for a throttling-array
// function-literal body, and ok=false when nothing matches. Unlike
// MatchSignature, an unmatched throttling entry is never defaulted to a
// guessed primitive — the caller keeps it as an opaque, uncallable raw
// string (model.ElemRaw) so a VM step that never actually calls it costs
// nothing, and one that does surfaces as an invariant violation instead of
// silently running the wrong transform.
func MatchThrottling(body string) (model.PrimitiveKind, bool) {
	for _, r := range throttlingRules {
		if r.pattern.MatchString(body) {
			return r.kind, true
		}
	}
	return model.KindUnknown, false
}
