package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/store"
)

// Store implements the store interfaces on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	raw  store.Table
}

var (
	_ store.PageWriter = (*Store)(nil)
	_ store.PageReader = (*Store)(nil)
	_ store.RowWriter  = (*Store)(nil)
)

// Open connects a pool to dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string, raw store.Table) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, classify("ping", err)
	}
	return New(pool, raw), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, raw store.Table) *Store {
	return &Store{pool: pool, raw: raw}
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

func ident(t store.Table) string {
	return pgx.Identifier{t.Schema, t.Name}.Sanitize()
}

func (s *Store) EnsureRawTable(ctx context.Context) error {
	stmts := []string{
		"CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{s.raw.Schema}.Sanitize(),
		"CREATE TABLE IF NOT EXISTS " + ident(s.raw) + ` (
			id BIGSERIAL PRIMARY KEY,
			data JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return classify("ensure raw table", err)
		}
	}
	return nil
}

func (s *Store) InsertPage(ctx context.Context, data json.RawMessage) (model.RawPage, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.RawPage{}, classify("insert page", err)
	}
	defer tx.Rollback(ctx)

	page := model.RawPage{Data: data}
	err = tx.QueryRow(ctx,
		"INSERT INTO "+ident(s.raw)+" (data) VALUES ($1) RETURNING id, fetched_at",
		[]byte(data),
	).Scan(&page.ID, &page.FetchedAt)
	if err != nil {
		return model.RawPage{}, classify("insert page", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.RawPage{}, classify("insert page: commit", err)
	}
	return page, nil
}

func (s *Store) ScanPages(ctx context.Context, fn func(model.RawPage) error) error {
	rows, err := s.pool.Query(ctx, "SELECT id, data, fetched_at FROM "+ident(s.raw)+" ORDER BY id")
	if err != nil {
		return classify("scan pages", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			page model.RawPage
			data []byte
		)
		if err := rows.Scan(&page.ID, &data, &page.FetchedAt); err != nil {
			return classify("scan pages", err)
		}
		page.Data = data
		if err := fn(page); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return classify("scan pages", err)
	}
	return nil
}

const columnsSQL = `SELECT column_name::text, data_type::text, ordinal_position::int, is_nullable::text = 'YES'
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

func (s *Store) Columns(ctx context.Context, table store.Table) ([]store.Column, error) {
	rows, err := s.pool.Query(ctx, columnsSQL, table.Schema, table.Name)
	if err != nil {
		return nil, classify("columns", err)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Column, error) {
		var c store.Column
		err := row.Scan(&c.Name, &c.DataType, &c.Position, &c.Nullable)
		return c, err
	})
	if err != nil {
		return nil, classify("columns", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("postgres columns: %w: %s", store.ErrTableNotFound, table)
	}
	return cols, nil
}

func (s *Store) InsertRow(ctx context.Context, ins store.Insert, values []any) (bool, error) {
	if len(values) != len(ins.Columns) {
		return false, fmt.Errorf("postgres insert row: %d values for %d columns", len(values), len(ins.Columns))
	}
	tag, err := s.pool.Exec(ctx, insertSQL(ins), values...)
	if err != nil {
		return false, classify("insert row", err)
	}
	return tag.RowsAffected() == 1, nil
}

// insertSQL renders INSERT ... ON CONFLICT (key) DO NOTHING with every
// identifier quoted.
func insertSQL(ins store.Insert) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(ident(ins.Table))
	b.WriteString(" (")
	for i, c := range ins.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{c}.Sanitize())
	}
	b.WriteString(") VALUES (")
	for i := range ins.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(i + 1))
	}
	b.WriteString(") ON CONFLICT (")
	b.WriteString(pgx.Identifier{ins.KeyColumn}.Sanitize())
	b.WriteString(") DO NOTHING")
	return b.String()
}
