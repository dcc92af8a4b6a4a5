package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// PostgresKV stores blobs in the kv_store table.
type PostgresKV struct {
	DB            *sql.DB
	maxValueBytes int
}

func NewPostgresKV(db *sql.DB, maxValueBytes int) *PostgresKV {
	return &PostgresKV{DB: db, maxValueBytes: maxValueBytes}
}

// OpenPostgres opens and pings a pgx-backed *sql.DB with the service's pool settings.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// Migrate creates the table when missing.
func (p *PostgresKV) Migrate(ctx context.Context) error {
	const q = `
create table if not exists kv_store (
  key        text primary key,
  value      bytea not null,
  updated_at timestamptz not null default now()
)`
	_, err := p.DB.ExecContext(ctx, q)
	return err
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `select value from kv_store where key = $1`
	var v []byte
	if err := p.DB.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	if p.maxValueBytes > 0 && len(value) > p.maxValueBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(value), p.maxValueBytes)
	}
	const q = `
insert into kv_store (key, value, updated_at) values ($1, $2, now())
on conflict (key) do update
set value = excluded.value,
    updated_at = excluded.updated_at`
	_, err := p.DB.ExecContext(ctx, q, key, value)
	return mapPgError(err)
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	const q = `delete from kv_store where key = $1`
	_, err := p.DB.ExecContext(ctx, q, key)
	return err
}

// PurgeOlderThan deletes keys not written for olderThan, e.g. abandoned guest buckets.
func (p *PostgresKV) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	const q = `delete from kv_store where updated_at < $1`
	res, err := p.DB.ExecContext(ctx, q, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

// PostgreSQL error codes that mean "no room for this write".
const (
	pgDiskFull             = "53100"
	pgOutOfMemory          = "53200"
	pgProgramLimitExceeded = "54000"
)

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDiskFull, pgOutOfMemory, pgProgramLimitExceeded:
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, pgErr.Message)
		}
	}
	return err
}
