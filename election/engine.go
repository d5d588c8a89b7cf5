// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/db"
)

// RejectPolicy decides what happens to a candidacy when it is rejected.
type RejectPolicy string

const (
	// RejectRetain keeps the row with status REJECTED.
	RejectRetain RejectPolicy = "retain"
	// RejectDelete removes the row, as the first version of the API did.
	RejectDelete RejectPolicy = "delete"
)

// Clock is the engine's source of "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Engine enforces the election, candidacy and ballot rules on top of a SQL
// store. It holds no mutable state of its own and is safe for concurrent use.
type Engine struct {
	db           *sql.DB
	clock        Clock
	logger       *slog.Logger
	rejectPolicy RejectPolicy
	dialect      string
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithRejectPolicy(p RejectPolicy) Option {
	return func(e *Engine) { e.rejectPolicy = p }
}

// WithDialect overrides the dialect detected from the connection's driver.
func WithDialect(dialect string) Option {
	return func(e *Engine) { e.dialect = dialect }
}

func New(conn *sql.DB, opts ...Option) *Engine {
	e := &Engine{
		db:           conn,
		dialect:      db.Dialect(conn),
		clock:        SystemClock{},
		logger:       slog.Default(),
		rejectPolicy: RejectRetain,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.rejectPolicy != RejectDelete {
		e.rejectPolicy = RejectRetain
	}
	return e
}

// Now returns the engine clock's current instant at storage precision.
func (e *Engine) Now() time.Time {
	return normalize(e.clock.Now())
}

// normalize gives every stored instant the same UTC, whole-second form so
// range comparisons agree between PostgreSQL and SQLite.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func newID() string {
	return uuid.NewString()
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// inTx runs fn in a transaction. Any error from fn rolls everything back;
// fn is expected to have wrapped its own driver errors already.
func (e *Engine) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	return e.inTxOpts(ctx, op, nil, fn)
}

func (e *Engine) inTxOpts(ctx context.Context, op string, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := e.db.BeginTx(ctx, opts)
	if err != nil {
		return e.storeErr(op+": begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return e.storeErr(op+": commit", err)
	}
	return nil
}

// lockClause returns the row-lock suffix for mode ("FOR SHARE", "FOR UPDATE")
// on PostgreSQL. SQLite has no row locks; its single connection already
// serialises transactions.
func (e *Engine) lockClause(mode string) string {
	if e.dialect != db.TypePostgres {
		return ""
	}
	return " " + mode
}

// snapshotOptions makes a multi-statement read see one snapshot on
// PostgreSQL, where READ COMMITTED takes a fresh one per statement.
func (e *Engine) snapshotOptions() *sql.TxOptions {
	if e.dialect != db.TypePostgres {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: normalize(*t), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
