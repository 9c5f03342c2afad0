package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for store errors.
var (
	ErrConnection = errors.New("store connection failed")
	ErrQuery      = errors.New("store query failed")
	ErrWrite      = errors.New("store write failed")
	ErrClosed     = errors.New("session closed")
)

// ConnectionError reports that a session could not be established.
type ConnectionError struct {
	Keyspace string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect keyspace %q: %v", e.Keyspace, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is matches ErrConnection.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// QueryError wraps any driver failure for a single statement.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", compact(e.Statement), e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is matches ErrQuery.
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// WriteError reports the chunk at which a batched write stopped. Chunks before
// it were committed.
type WriteError struct {
	Table string
	Chunk int
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s chunk %d: %v", e.Table, e.Chunk, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is matches ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

func compact(stmt string) string {
	return strings.Join(strings.Fields(stmt), " ")
}
