package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/meetups/internal/client/session/migrations"
	"github.com/dmitrijs2005/meetups/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	keyPrefix       = "session."
	keyUID          = keyPrefix + "uid"
	keyIDToken      = keyPrefix + "id_token"
	keyRefreshToken = keyPrefix + "refresh_token"
	keyExpiresAt    = keyPrefix + "expires_at"
)

// Store keeps at most one session.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the session database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := dbx.Open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	expires := ""
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := newKVRepository(tx)
		if err := repo.deletePrefix(ctx, keyPrefix); err != nil {
			return err
		}
		for _, kv := range []struct{ key, value string }{
			{keyUID, sess.UID},
			{keyIDToken, sess.IDToken},
			{keyRefreshToken, sess.RefreshToken},
			{keyExpiresAt, expires},
		} {
			if kv.value == "" {
				continue
			}
			if err := repo.set(ctx, kv.key, []byte(kv.value)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the stored session; ok is false when none is stored.
func (s *Store) Load(ctx context.Context) (sess Session, ok bool, err error) {
	repo := newKVRepository(s.db)

	uid, err := repo.get(ctx, keyUID)
	if err != nil {
		return Session{}, false, err
	}
	if len(uid) == 0 {
		return Session{}, false, nil
	}
	sess.UID = string(uid)

	idToken, err := repo.get(ctx, keyIDToken)
	if err != nil {
		return Session{}, false, err
	}
	sess.IDToken = string(idToken)

	refresh, err := repo.get(ctx, keyRefreshToken)
	if err != nil {
		return Session{}, false, err
	}
	sess.RefreshToken = string(refresh)

	expires, err := repo.get(ctx, keyExpiresAt)
	if err != nil {
		return Session{}, false, err
	}
	if len(expires) > 0 {
		t, err := time.Parse(time.RFC3339, string(expires))
		if err != nil {
			return Session{}, false, fmt.Errorf("stored session expiry: %w", err)
		}
		sess.ExpiresAt = t
	}

	return sess, true, nil
}

// Clear forgets the stored session.
func (s *Store) Clear(ctx context.Context) error {
	return newKVRepository(s.db).deletePrefix(ctx, keyPrefix)
}
