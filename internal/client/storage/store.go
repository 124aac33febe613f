// Package storage provides the device-local SQL store used by the medguide
// client. It owns a single cached connection and exposes two execution
// primitives: Run for statements that produce no rows and Query for
// row-returning statements.
//
// The underlying driver has shipped in two incompatible generations, so the
// store does not assume a concrete connection type. Instead it probes the
// injected connection once, at construction time, for the capabilities it
// knows about and dispatches on the result for the lifetime of the handle.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/medguide/internal/common"
)

// Stmt pairs a SQL statement with its arguments, as consumed by
// batch-generation drivers.
type Stmt struct {
	SQL  string
	Args []any
}

// execConn is the modern single-call execution primitive. *sql.DB and
// *sql.Tx both satisfy it.
type execConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// batchConn is the batch execution primitive of the previous driver
// generation: a list of statements executed as one unit.
type batchConn interface {
	ExecBatch(ctx context.Context, stmts []Stmt) error
}

// queryConn is the row-returning primitive. Only the modern generation
// provides it; there is no batch fallback for reads.
type queryConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ExecMode identifies which write primitive the probed connection supports.
type ExecMode int

const (
	ExecUnsupported ExecMode = iota
	ExecModernAsync
	ExecBatchAsync
)

// Store wraps a probed connection. Construct with New (or the cached Open)
// and share freely; Store itself holds no per-call state.
type Store struct {
	mode  ExecMode
	exec  execConn
	batch batchConn
	query queryConn
}

// New probes conn for the known driver capabilities and returns a Store
// dispatching on whichever write generation is present. The modern
// single-call primitive wins over the batch one when both exist.
//
// If conn exposes no known primitive at all, New fails with
// common.ErrStoreUnavailable.
func New(conn any) (*Store, error) {
	s := &Store{}

	if e, ok := conn.(execConn); ok {
		s.mode = ExecModernAsync
		s.exec = e
	} else if b, ok := conn.(batchConn); ok {
		s.mode = ExecBatchAsync
		s.batch = b
	}

	if q, ok := conn.(queryConn); ok {
		s.query = q
	}

	if s.mode == ExecUnsupported && s.query == nil {
		return nil, fmt.Errorf("%w: connection exposes no known driver entry point", common.ErrStoreUnavailable)
	}
	return s, nil
}

// Mode reports the write capability selected at construction time.
func (s *Store) Mode() ExecMode {
	return s.mode
}

// Run executes a statement that is expected to produce no rows (DDL,
// INSERT, UPDATE, DELETE). On a batch-generation driver the statement is
// wrapped as a single-item batch.
func (s *Store) Run(ctx context.Context, query string, args ...any) error {
	switch s.mode {
	case ExecModernAsync:
		_, err := s.exec.ExecContext(ctx, query, args...)
		return err
	case ExecBatchAsync:
		return s.batch.ExecBatch(ctx, []Stmt{{SQL: query, Args: args}})
	default:
		return fmt.Errorf("%w: missing execution primitive (ExecContext or ExecBatch)", common.ErrUnsupportedDriver)
	}
}

// Query executes a row-returning statement. The caller owns the returned
// rows and must close them. Drivers without the row-returning primitive are
// rejected; reads have no batch-generation fallback.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.query == nil {
		return nil, fmt.Errorf("%w: missing row-returning primitive (QueryContext)", common.ErrUnsupportedDriver)
	}
	return s.query.QueryContext(ctx, query, args...)
}

// Process-wide cached handle for the production bootstrap path. Tests
// should construct stores with New directly and never touch this cache;
// the reset hook is only reachable from package tests.
var (
	openOnce sync.Once
	openDB   *sql.DB
	opened   *Store
	openErr  error
)

// Open returns the process-wide Store backed by the on-device sqlite file
// at dsn, opening it on the first call and returning the same handle on
// every subsequent call regardless of dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	openOnce.Do(func() {
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			openErr = fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
			return
		}
		// A device-local sqlite file serves one writer; a single
		// connection also keeps :memory: databases coherent.
		db.SetMaxOpenConns(1)

		store, err := New(db)
		if err != nil {
			_ = db.Close()
			openErr = err
			return
		}
		openDB = db
		opened = store
	})
	return opened, openErr
}

func resetCache() {
	if openDB != nil {
		_ = openDB.Close()
	}
	openOnce = sync.Once{}
	openDB = nil
	opened = nil
	openErr = nil
}
