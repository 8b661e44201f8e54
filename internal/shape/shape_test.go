package shape

import (
	"testing"

	"github.com/supamega9595/vid/internal/model"
)

func TestMatchSignature(t *testing.T) {
	cases := []struct {
		name string
		body string
		want model.PrimitiveKind
	}{
		{"reverse", "function(a){a.reverse()}", model.KindReverse},
		{"splice", "function(a,b){a.splice(0,b)}", model.KindSplice},
		{"swap", "function(a,b){var c=a[0];a[0]=a[b%a.length];a[b]=c}", model.KindSwap},
		{"swap with modulus on assignment too", "function(a,b){var c=a[0];a[0]=a[b%a.length];a[b%a.length]=c}", model.KindSwap},
		{"whitespace variant of reverse", "function( a ) { a.reverse() }", model.KindReverse},
		{"unrecognized body falls back to reverse", "function(a){a.doSomethingElse()}", model.KindReverse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchSignature(tc.body); got != tc.want {
				t.Errorf("MatchSignature(%q) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}

func TestMatchThrottling(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		want   model.PrimitiveKind
		wantOk bool
	}{
		{"push", "function(d,e){d.push(e)}", model.KindPush, true},
		{"reverse", "function(d){d.reverse()}", model.KindReverse, true},
		{"swap", "function(d,e){e=(e%d.length+d.length)%d.length;var f=d[0];d[0]=d[e];d[e]=f}", model.KindSwapZeroK, true},
		{"unshift rotate", "function(d,e){for(e=(e%d.length+d.length)%d.length;e--;)d.unshift(d.pop())}", model.KindUnshiftRotate, true},
		{"prepend rotate", "function(d,e){e=(e%d.length+d.length)%d.length;d.splice(-e).reverse().forEach(function(f){d.unshift(f)})}", model.KindPrependRotate, true},
		{"nested splice", "function(d,e){e=(e%d.length+d.length)%d.length;d.splice(0,1,d.splice(e,1,d[0])[0])}", model.KindNestedSplice, true},
		{"unrecognized has no match", "function(d,e){return d.length+e}", model.KindUnknown, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MatchThrottling(tc.body)
			if ok != tc.wantOk {
				t.Fatalf("MatchThrottling(%q) ok = %v, want %v", tc.body, ok, tc.wantOk)
			}
			if ok && got != tc.want {
				t.Errorf("MatchThrottling(%q) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}
