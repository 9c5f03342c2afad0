package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/j0rgedev/football-analysis/pkg/metrics"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteOpener opens one database file per keyspace under Dir. It backs local
// runs and tests; the schema is always applied on open.
type SQLiteOpener struct {
	Dir string
}

// NewSQLiteOpener returns an opener rooted at dir.
func NewSQLiteOpener(dir string) *SQLiteOpener {
	return &SQLiteOpener{Dir: dir}
}

// Path returns the database file used for keyspace.
func (o *SQLiteOpener) Path(keyspace string) string {
	return filepath.Join(o.Dir, keyspace+".db")
}

func (o *SQLiteOpener) Open(ctx context.Context, keyspace string) (Session, error) {
	if !keyspacePattern.MatchString(keyspace) {
		return nil, &ConnectionError{Keyspace: keyspace, Err: fmt.Errorf("invalid keyspace name")}
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, &ConnectionError{Keyspace: keyspace, Err: err}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", o.Path(keyspace))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &ConnectionError{Keyspace: keyspace, Err: fmt.Errorf("open db: %w", err)}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Keyspace: keyspace, Err: fmt.Errorf("apply schema: %w", err)}
	}
	return &sqliteSession{keyspace: keyspace, db: db, stmts: make(map[string]*sql.Stmt)}, nil
}

type sqliteSession struct {
	keyspace string

	mu    sync.Mutex
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

func (s *sqliteSession) Keyspace() string { return s.keyspace }

// prepared returns the cached statement for stmt, preparing it on first use.
func (s *sqliteSession) prepared(ctx context.Context, stmt string) (*sql.DB, *sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, nil, ErrClosed
	}
	if p, ok := s.stmts[stmt]; ok {
		return s.db, p, nil
	}
	p, err := s.db.PrepareContext(ctx, stmt)
	if err != nil {
		return nil, nil, err
	}
	s.stmts[stmt] = p
	return s.db, p, nil
}

func (s *sqliteSession) Execute(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	_, p, err := s.prepared(ctx, stmt)
	if err != nil {
		return nil, &QueryError{Statement: stmt, Err: err}
	}

	start := time.Now()
	defer func() { metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds())) }()

	if !isSelect(stmt) {
		if _, err := p.ExecContext(ctx, args...); err != nil {
			return nil, &QueryError{Statement: stmt, Err: err}
		}
		return &ResultSet{}, nil
	}

	rows, err := p.QueryContext(ctx, args...)
	if err != nil {
		return nil, &QueryError{Statement: stmt, Err: err}
	}
	defer rows.Close()

	result, err := sliceMap(rows)
	if err != nil {
		return nil, &QueryError{Statement: stmt, Err: err}
	}
	return result, nil
}

// ExecuteBatch runs every row in one transaction, mirroring an unlogged batch
// on a single partition.
func (s *sqliteSession) ExecuteBatch(ctx context.Context, stmt string, rows [][]any) error {
	db, p, err := s.prepared(ctx, stmt)
	if err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	txStmt := tx.StmtContext(ctx, p)
	for _, args := range rows {
		if _, err := txStmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return &QueryError{Statement: stmt, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	return nil
}

func (s *sqliteSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	for _, p := range s.stmts {
		_ = p.Close()
	}
	s.stmts = nil
	err := s.db.Close()
	s.db = nil
	return err
}

func isSelect(stmt string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(stmt)), "SELECT")
}

func sliceMap(rows *sql.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := &ResultSet{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}
