package decipher

import "github.com/supamega9595/vid/internal/planstore"

// Option configures a Cipher at construction time.
type Option func(*Cipher)

// WithPlanStore plugs in a cache for extracted plans, keyed by a hash of
// the script text. Without this option a Cipher always extracts fresh.
func WithPlanStore(store planstore.Store) Option {
	return func(c *Cipher) {
		c.store = store
	}
}
