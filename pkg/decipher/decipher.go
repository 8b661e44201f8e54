// Package decipher is the public surface of this module: given the text
// of an obfuscated player script, it extracts the cipher machinery once
// and exposes exactly two operations against it — deciphering a ciphered
// signature, and computing the throttled "n" sequence.
package decipher

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/supamega9595/vid/internal/interpreter"
	"github.com/supamega9595/vid/internal/model"
	"github.com/supamega9595/vid/internal/planstore"
	"github.com/supamega9595/vid/internal/sigextract"
	"github.com/supamega9595/vid/internal/throttleextract"
)

// Cipher holds everything extracted from one player script release. It is
// safe for concurrent use: the extracted plan/map/array/plan are
// immutable after New returns, and the only mutable state (the call
// parser's memo and the throttling result memo) is guarded.
type Cipher struct {
	id uuid.UUID

	transformPlan model.TransformPlan
	transformMap  model.TransformMap
	callParser    *interpreter.CallParser

	throttlingArray model.ThrottlingArray
	throttlingPlan  model.ThrottlingPlan
	hasThrottling   bool

	throttleOnce   sync.Once
	throttleResult string
	throttleErr    error

	store planstore.Store
}

// ID returns the release-scoped correlation id assigned to this Cipher at
// construction, for log correlation across calls against the same script.
func (c *Cipher) ID() uuid.UUID {
	return c.id
}

// New extracts the cipher machinery from js and returns a ready-to-use
// Cipher. Throttling extraction is optional: a script with no throttling
// machinery (or one this package's patterns can't locate) still yields a
// working Cipher for signature deciphering, with ComputeThrottling
// returning ErrPatternNotFound if later called — mirroring the teacher's
// "Warning: ... continuing without X" pattern for optional subsystems.
func New(js string, opts ...Option) (*Cipher, error) {
	c := &Cipher{id: uuid.New(), callParser: interpreter.NewCallParser()}
	for _, opt := range opts {
		opt(c)
	}

	key := planstore.KeyForScript(js)
	ctx := context.Background()

	if c.store != nil {
		if cached, ok, err := c.store.Get(ctx, key); err == nil && ok {
			log.Printf("[decipher %s] loaded extracted plan from cache (key=%s)", c.id, key[:12])
			c.transformPlan = cached.TransformPlan
			c.transformMap = cached.TransformMap
			c.throttlingArray = cached.ThrottlingArray
			c.throttlingPlan = cached.ThrottlingPlan
			c.hasThrottling = len(cached.ThrottlingPlan) > 0
			return c, nil
		} else if err != nil {
			log.Printf("[decipher %s] plan cache read failed, extracting fresh: %v", c.id, err)
		}
	}

	name, err := sigextract.InitialFunctionName(js)
	if err != nil {
		return nil, fmt.Errorf("decipher: %w", err)
	}
	rawPlan, err := sigextract.TransformPlan(js, name)
	if err != nil {
		return nil, fmt.Errorf("decipher: %w", err)
	}
	resolvedPlan, objVar, err := sigextract.ResolveIndirection(js, rawPlan)
	if err != nil {
		return nil, fmt.Errorf("decipher: %w", err)
	}
	tmap, err := sigextract.TransformMap(js, objVar)
	if err != nil {
		return nil, fmt.Errorf("decipher: %w", err)
	}
	c.transformPlan = resolvedPlan
	c.transformMap = tmap

	if loc, err := throttleextract.Locate(js); err != nil {
		log.Printf("[decipher %s] throttling machinery not found, continuing without it: %v", c.id, err)
	} else {
		c.throttlingArray = loc.Array
		c.throttlingPlan = loc.Plan
		c.hasThrottling = true
	}

	if c.store != nil {
		plan := planstore.Plan{
			TransformPlan:   c.transformPlan,
			TransformMap:    c.transformMap,
			ThrottlingArray: c.throttlingArray,
			ThrottlingPlan:  c.throttlingPlan,
		}
		if err := c.store.Put(ctx, key, plan); err != nil {
			log.Printf("[decipher %s] failed to persist extracted plan to cache: %v", c.id, err)
		}
	}

	return c, nil
}

// DecipherSignature applies the extracted transform plan to a ciphered
// signature and returns the playable signature.
func (c *Cipher) DecipherSignature(ciphered string) (string, error) {
	sig, err := interpreter.ApplySignaturePlan(c.transformPlan, c.transformMap, c.callParser, ciphered)
	if err != nil {
		return "", fmt.Errorf("decipher: %w", err)
	}
	return sig, nil
}

// ComputeThrottling runs the throttling VM against seq and returns the
// deciphered "n" query-parameter value. The result is memoized per
// Cipher instance on first call: a script's throttling transform is only
// ever meant to run once per release, so a second call — even with a
// different seq — returns the first call's result without recomputing,
// matching the original implementation's own memoization.
func (c *Cipher) ComputeThrottling(seq string) (string, error) {
	if !c.hasThrottling {
		return "", fmt.Errorf("decipher: %w", ErrPatternNotFound)
	}
	c.throttleOnce.Do(func() {
		c.throttleResult, c.throttleErr = interpreter.Execute(c.throttlingArray, c.throttlingPlan, seq)
	})
	if c.throttleErr != nil {
		return "", fmt.Errorf("decipher: %w", c.throttleErr)
	}
	return c.throttleResult, nil
}
