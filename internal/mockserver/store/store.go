// Package store is the sqlite persistence layer of the demo mock server. It
// mirrors the backend's data model closely enough for the console to be
// exercised end to end without a real deployment.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// builder is the shared Squirrel statement builder for sqlite placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and applies all
// pending migrations. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// sqlite allows a single writer; the demo server keeps one connection to
	// avoid SQLITE_BUSY and to make :memory: behave.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("mock store ready", "path", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle (used by tests).
func (s *Store) DB() *sql.DB {
	return s.db
}

// runMigrations applies all pending migrations.
func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}

	slog.Info("mock store migrations completed", "version", version)
	return nil
}

// PageMeta is what list queries return alongside items.
type PageMeta struct {
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
}

// paging normalizes page/page size and computes the page metadata for total.
func paging(page, pageSize, total int) (limit, offset int, meta PageMeta) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	totalPages := (total + pageSize - 1) / pageSize
	return pageSize, (page - 1) * pageSize, PageMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
	}
}

// orderBy translates the wire `sorts` parameter ("-key,key2") into ORDER BY
// clauses, accepting only whitelisted column names. Unknown keys are ignored,
// never interpolated.
func orderBy(raw string, allowed map[string]string, fallback string) []string {
	var clauses []string
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(key, "-") {
			key = key[1:]
			dir = "DESC"
		}
		col, ok := allowed[key]
		if !ok {
			continue
		}
		clauses = append(clauses, col+" "+dir)
	}
	if len(clauses) == 0 {
		clauses = append(clauses, fallback)
	}
	return clauses
}

// count runs a COUNT(*) for the given filtered query.
func (s *Store) count(ctx context.Context, table string, where []sq.Sqlizer) (int, error) {
	qb := builder.Select("COUNT(*)").From(table)
	for _, w := range where {
		qb = qb.Where(w)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query for %s: %w", table, err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
