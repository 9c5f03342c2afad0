package lease

// Option applies a configuration option to the lease table.
type Option func(*table)

// WithMaxHeld caps the number of videos that may be leased at once.
// maxHeld <= 0 means unbounded.
func WithMaxHeld(maxHeld int) Option {
	return func(t *table) {
		t.maxHeld = maxHeld
	}
}
