// Package pgstore implements remote.CollectionStore on a shared PostgreSQL
// database. Records are JSONB documents keyed by (collection, key); keys are
// generated client side as random UUIDs.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/meetups/internal/client/remote/pgstore/migrations"
	"github.com/dmitrijs2005/meetups/internal/common"
	"github.com/dmitrijs2005/meetups/internal/dbx"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Store is a collection store over a dbx.DBTX (*sql.DB or *sql.Tx).
type Store struct {
	db     dbx.DBTX
	newKey func() string
}

// NewStore binds a store to db.
func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db, newKey: uuid.NewString}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Open connects to the database at dsn with the pgx driver and migrates it.
// The caller owns the returned *sql.DB.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := dbx.Open(ctx, "pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return NewStore(db), db, nil
}

// Get returns every record of the collection in creation order.
func (s *Store) Get(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	query := `SELECT key, body FROM records WHERE collection = $1 ORDER BY created_at, key`
	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var body []byte
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result[key] = json.RawMessage(body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return result, nil
}

// Push inserts record under a new key.
func (s *Store) Push(ctx context.Context, collection string, record any) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	key := s.newKey()
	query := `INSERT INTO records (collection, key, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := s.db.ExecContext(ctx, query, collection, key, string(body)); err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}
	return key, nil
}

// Update merges patch into the stored document (top-level keys are
// replaced). A missing record yields common.ErrorNotFound.
func (s *Store) Update(ctx context.Context, collection, key string, patch map[string]any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	query := `UPDATE records SET body = body || $3::jsonb, updated_at = now() WHERE collection = $1 AND key = $2`
	res, err := s.db.ExecContext(ctx, query, collection, key, string(body))
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s/%s: %w", collection, key, common.ErrorNotFound)
	}
	return nil
}

// Remove deletes the record; a missing record is not an error.
func (s *Store) Remove(ctx context.Context, collection, key string) error {
	query := `DELETE FROM records WHERE collection = $1 AND key = $2`
	if _, err := s.db.ExecContext(ctx, query, collection, key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
