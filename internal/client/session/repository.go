package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/meetups/internal/dbx"
)

// kvRepository is a key/value view over the metadata table.
type kvRepository struct {
	db dbx.DBTX
}

func newKVRepository(db dbx.DBTX) *kvRepository {
	return &kvRepository{db: db}
}

// get returns (nil, nil) for a missing key.
func (r *kvRepository) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *kvRepository) set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *kvRepository) deletePrefix(ctx context.Context, prefix string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s*]: %w", prefix, err)
	}
	return nil
}
