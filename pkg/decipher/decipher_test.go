package decipher

import (
	"context"
	"errors"
	"testing"

	"github.com/supamega9595/vid/internal/planstore"
)

// A minimal but structurally faithful obfuscated player script: a
// transform object with one instance of each signature primitive shape,
// and an initial function whose plan calls all three in order. No
// throttling machinery is present, matching a script release where that
// path has been disabled (spec.md 4.6 status note).
const sampleScript = `var DE={AJ:function(a){a.reverse()},VR:function(a,b){a.splice(0,b)},BK:function(a,b){var c=a[0];a[0]=a[b%a.length];a[b]=c}};xyz=function(a){a=a.split("");DE.AJ(a,0);DE.VR(a,1);DE.BK(a,2);return a.join("")};`

func TestNew_ExtractsAndDeciphers(t *testing.T) {
	c, err := New(sampleScript)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.DecipherSignature("ABCDEFGH")
	if err != nil {
		t.Fatalf("DecipherSignature: %v", err)
	}
	// reverse -> "HGFEDCBA"; splice(1) -> "GFEDCBA"; swap(2 mod 7=2) -> "EFGDCBA"
	want := "EFGDCBA"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNew_NoThrottlingMachinery(t *testing.T) {
	c, err := New(sampleScript)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.ComputeThrottling("73kQ"); !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("expected ErrPatternNotFound, got %v", err)
	}
}

func TestNew_UnrecognizableScriptFails(t *testing.T) {
	if _, err := New("not a player script at all"); !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("expected ErrPatternNotFound, got %v", err)
	}
}

func TestCipher_ID_IsStable(t *testing.T) {
	c, err := New(sampleScript)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id1 := c.ID()
	id2 := c.ID()
	if id1 != id2 {
		t.Errorf("ID changed between calls: %v vs %v", id1, id2)
	}
}

func TestWithPlanStore_CachesExtractedPlan(t *testing.T) {
	store := planstore.NewMemory()

	first, err := New(sampleScript, WithPlanStore(store))
	if err != nil {
		t.Fatalf("New (cold): %v", err)
	}
	firstOut, err := first.DecipherSignature("ABCDEFGH")
	if err != nil {
		t.Fatalf("DecipherSignature (cold): %v", err)
	}

	second, err := New(sampleScript, WithPlanStore(store))
	if err != nil {
		t.Fatalf("New (warm): %v", err)
	}
	secondOut, err := second.DecipherSignature("ABCDEFGH")
	if err != nil {
		t.Fatalf("DecipherSignature (warm): %v", err)
	}

	if firstOut != secondOut {
		t.Errorf("cached cipher diverged: %q vs %q", secondOut, firstOut)
	}

	key := planstore.KeyForScript(sampleScript)
	if _, ok, err := store.Get(context.Background(), key); err != nil || !ok {
		t.Errorf("expected plan to be cached under key %s, got ok=%v err=%v", key, ok, err)
	}
}
