package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"inmogest/config"
)

// Querier is the minimal statement contract shared by the Store and an
// open transaction. Statements are written with '?' placeholders; the
// postgres engine rebinds them to $n.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps database/sql over the configured engine: embedded SQLite
// by default, PostgreSQL through the pgx stdlib driver otherwise.
type Store struct {
	db     *sql.DB
	engine string
}

func Open(cfg *config.Config) (*Store, error) {
	engine := cfg.DBEngine
	if engine == "" {
		engine = config.EngineSQLite
	}

	var driver, dsn string
	switch engine {
	case config.EngineSQLite:
		driver = "sqlite3"
		dsn = cfg.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	case config.EnginePostgres:
		driver = "pgx"
		dsn = cfg.Postgres.DSN()
	default:
		return nil, fmt.Errorf("motor de base de datos no soportado: %s", engine)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	// One embedded store, one logical writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, engine: engine}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Engine() string {
	return s.engine
}

func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, rebind(s.engine, query), args...)
}

func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, rebind(s.engine, query), args...)
}

func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, rebind(s.engine, query), args...)
}

// WithTx runs fn inside a single transaction. Any error rolls the whole
// thing back, so multi-statement writes never leave partial state.
func (s *Store) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&storeTx{tx: tx, engine: s.engine}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type storeTx struct {
	tx     *sql.Tx
	engine string
}

func (t *storeTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, rebind(t.engine, query), args...)
}

func (t *storeTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, rebind(t.engine, query), args...)
}

func (t *storeTx) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, rebind(t.engine, query), args...)
}

// rebind rewrites '?' placeholders to '$1..$n' for postgres. Queries
// never carry a literal '?' outside a placeholder.
func rebind(engine, query string) string {
	if engine != config.EnginePostgres || !strings.ContainsRune(query, '?') {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
