package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/library-session/credstore"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	scope TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (scope, key)
)`

var _ credstore.KV = (*KV)(nil)

// KV stores entries in a SQLite file, namespaced by scope so several
// consoles can share a database file without seeing each other's session.
type KV struct {
	db    *sql.DB
	scope string
}

// Open opens (creating if needed) the database at path.
func Open(path, scope string) (*KV, error) {
	if scope == "" {
		return nil, errors.New("[sqlitekv.Open] scope is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("[sqlitekv.Open] create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[sqlitekv.Open] open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("[sqlitekv.Open] init: %w", err)
		}
	}

	return &KV{db: db, scope: scope}, nil
}

func (kv *KV) Close() error {
	return kv.db.Close()
}

func (kv *KV) SetAll(ctx context.Context, entries map[string]string) error {
	tx, err := kv.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO kv (scope, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for k, v := range entries {
		if _, err := stmt.ExecContext(ctx, kv.scope, k, v); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (kv *KV) GetAll(ctx context.Context, keys []string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	query := `SELECT key, value FROM kv WHERE scope = ? AND key IN (` + placeholders(len(keys)) + `)`
	rows, err := kv.db.QueryContext(ctx, query, args(kv.scope, keys)...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		found[k] = v
	}
	return found, rows.Err()
}

func (kv *KV) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM kv WHERE scope = ? AND key IN (` + placeholders(len(keys)) + `)`
	if _, err := kv.db.ExecContext(ctx, query, args(kv.scope, keys)...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func args(scope string, keys []string) []any {
	out := make([]any, 0, len(keys)+1)
	out = append(out, scope)
	for _, k := range keys {
		out = append(out, k)
	}
	return out
}
