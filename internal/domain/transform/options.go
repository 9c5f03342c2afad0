package transform

import "github.com/google/uuid"

// Option configures a Transformer.
type Option func(*Transformer)

// WithIDGenerator replaces the ball row id source. Tests use it to get
// predictable ids.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(t *Transformer) {
		if gen != nil {
			t.newID = gen
		}
	}
}
