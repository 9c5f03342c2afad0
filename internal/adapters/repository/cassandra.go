package repository

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

//go:embed schema.cql
var schemaCQL string

var keyspacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

// DefaultHosts are the default contact points.
var DefaultHosts = []string{"127.0.0.1"}

// CassandraOpener opens gocql sessions.
type CassandraOpener struct {
	Hosts             []string
	Consistency       string
	Timeout           time.Duration
	NumRetries        int
	CreateSchema      bool
	ReplicationFactor int
}

// NewCassandraOpener returns an opener with driver defaults.
func NewCassandraOpener(hosts ...string) *CassandraOpener {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	return &CassandraOpener{
		Hosts:             hosts,
		Consistency:       "ONE",
		Timeout:           5 * time.Second,
		NumRetries:        3,
		ReplicationFactor: 1,
	}
}

func (o *CassandraOpener) cluster(keyspace string) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(o.Consistency)
	if err != nil {
		return nil, err
	}
	config := gocql.NewCluster(o.Hosts...)
	config.Keyspace = keyspace
	config.Consistency = consistency
	config.Timeout = o.Timeout
	config.ConnectTimeout = o.Timeout
	config.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: o.NumRetries}
	return config, nil
}

// Open connects to the cluster with keyspace as the default keyspace. When
// CreateSchema is set the keyspace and tables are created first.
func (o *CassandraOpener) Open(ctx context.Context, keyspace string) (Session, error) {
	if !keyspacePattern.MatchString(keyspace) {
		return nil, &ConnectionError{Keyspace: keyspace, Err: fmt.Errorf("invalid keyspace name")}
	}
	if o.CreateSchema {
		if err := o.EnsureSchema(ctx, keyspace); err != nil {
			return nil, err
		}
	}

	config, err := o.cluster(keyspace)
	if err != nil {
		return nil, &ConnectionError{Keyspace: keyspace, Err: err}
	}
	session, err := config.CreateSession()
	if err != nil {
		return nil, &ConnectionError{Keyspace: keyspace, Err: err}
	}
	return &cassandraSession{keyspace: keyspace, session: session}, nil
}

// EnsureSchema creates the keyspace and both tables if they do not exist.
func (o *CassandraOpener) EnsureSchema(ctx context.Context, keyspace string) error {
	if !keyspacePattern.MatchString(keyspace) {
		return &ConnectionError{Keyspace: keyspace, Err: fmt.Errorf("invalid keyspace name")}
	}
	config, err := o.cluster("")
	if err != nil {
		return &ConnectionError{Keyspace: keyspace, Err: err}
	}
	session, err := config.CreateSession()
	if err != nil {
		return &ConnectionError{Keyspace: keyspace, Err: err}
	}
	defer session.Close()

	rf := o.ReplicationFactor
	if rf < 1 {
		rf = 1
	}
	for _, stmt := range splitStatements(fmt.Sprintf(schemaCQL, keyspace, rf)) {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return &QueryError{Statement: stmt, Err: err}
		}
	}
	return nil
}

type cassandraSession struct {
	keyspace string

	mu      sync.Mutex
	session *gocql.Session
}

func (s *cassandraSession) Keyspace() string { return s.keyspace }

func (s *cassandraSession) live() (*gocql.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrClosed
	}
	return s.session, nil
}

func (s *cassandraSession) Execute(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	session, err := s.live()
	if err != nil {
		return nil, &QueryError{Statement: stmt, Err: err}
	}

	start := time.Now()
	rows, err := session.Query(stmt, args...).WithContext(ctx).Iter().SliceMap()
	metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, &QueryError{Statement: stmt, Err: err}
	}
	return &ResultSet{Rows: rows}, nil
}

// ExecuteBatch uses an unlogged batch; every row of a chunk belongs to the
// same video partition.
func (s *cassandraSession) ExecuteBatch(ctx context.Context, stmt string, rows [][]any) error {
	session, err := s.live()
	if err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}

	batch := session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, args := range rows {
		batch.Query(stmt, args...)
	}
	if err := session.ExecuteBatch(batch); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	return nil
}

func (s *cassandraSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
	return nil
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
