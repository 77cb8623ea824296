// Package sqlstore keeps fish descriptors as JSON payload rows in SQLite
// (modernc.org/sqlite) or Postgres (pgx stdlib driver).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
)

const TableName = "fish"

type dialect struct {
	driver      repository.Driver
	sqlDriver   string
	payloadType string
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
}

var (
	sqliteDialect = dialect{
		driver:      repository.DriverSQLite,
		sqlDriver:   "sqlite",
		payloadType: "BLOB",
		placeholder: func(int) string { return "?" },
	}
	postgresDialect = dialect{
		driver:      repository.DriverPostgres,
		sqlDriver:   "pgx",
		payloadType: "BYTEA",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

// rebind rewrites ? markers into the dialect's placeholder syntax.
func (d dialect) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type Store struct {
	db      *sql.DB
	dialect dialect
	source  string
}

var _ repository.FishRepository = (*Store)(nil)

// OpenSQLite opens (and if needed creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "fishtank.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open(sqliteDialect.sqlDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers; sqlite would otherwise answer
	// concurrent creates with SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return newStore(ctx, db, sqliteDialect, "sqlite://"+path)
}

func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN cannot be empty")
	}
	db, err := sql.Open(postgresDialect.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newStore(ctx, db, postgresDialect, "postgres://"+TableName)
}

func newStore(ctx context.Context, db *sql.DB, d dialect, source string) (*Store, error) {
	s := &Store{db: db, dialect: d, source: source}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		payload %s NOT NULL,
		updated_at BIGINT NOT NULL
	)`, TableName, s.dialect.payloadType)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", TableName, err)
	}
	return nil
}

func (s *Store) Driver() repository.Driver { return s.dialect.driver }

func (s *Store) Location(id string) string { return s.source + "/" + id }

func (s *Store) Create(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	query := s.dialect.rebind(`INSERT INTO ` + TableName + ` (id, payload, updated_at) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`)
	res, err := s.db.ExecContext(ctx, query, id, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert fish: %w", err)
	}
	return expectOneRow(res, fisherrors.ErrAlreadyExists, id)
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var data []byte
	query := s.dialect.rebind(`SELECT payload FROM ` + TableName + ` WHERE id = ?`)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to select fish: %w", err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	query := s.dialect.rebind(`UPDATE ` + TableName + ` SET payload = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, data, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update fish: %w", err)
	}
	return expectOneRow(res, fisherrors.ErrNotFound, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	query := s.dialect.rebind(`DELETE FROM ` + TableName + ` WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete fish: %w", err)
	}
	return expectOneRow(res, fisherrors.ErrNotFound, id)
}

func (s *Store) List(ctx context.Context) ([]repository.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM `+TableName+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []repository.Entry
	for rows.Next() {
		var e repository.Entry
		if err := rows.Scan(&e.ID, &e.Data); err != nil {
			e.Err = err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// expectOneRow maps "no row touched" onto sentinel.
func expectOneRow(res sql.Result, sentinel error, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", sentinel, id)
	}
	return nil
}
