// Package repository persists tracking rows to a column-family store.
package repository

import (
	"context"
	"fmt"
)

// Session is an open connection bound to one keyspace. It is owned by a single
// ingestion run and is not shared between runs.
type Session interface {
	// Keyspace returns the keyspace the session is bound to.
	Keyspace() string
	// Execute runs one statement. Driver failures come back as *QueryError.
	Execute(ctx context.Context, stmt string, args ...any) (*ResultSet, error)
	// ExecuteBatch runs stmt once per row inside a single batch.
	ExecuteBatch(ctx context.Context, stmt string, rows [][]any) error
	// Close releases the connection. It is idempotent.
	Close() error
}

// Opener establishes sessions.
type Opener interface {
	Open(ctx context.Context, keyspace string) (Session, error)
}

// ResultSet holds the materialized rows of a statement.
type ResultSet struct {
	Rows []map[string]any
}

// Int64 reads an integer column from the first row.
func (r *ResultSet) Int64(col string) (int64, error) {
	if r == nil || len(r.Rows) == 0 {
		return 0, fmt.Errorf("column %q: empty result", col)
	}
	v, ok := r.Rows[0][col]
	if !ok {
		return 0, fmt.Errorf("column %q: not in result", col)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("column %q: unexpected type %T", col, v)
	}
}

// CloseQuietly closes s when it is non-nil.
func CloseQuietly(s Session) error {
	if s == nil {
		return nil
	}
	return s.Close()
}
