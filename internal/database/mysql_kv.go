package database

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

const kvTable = "kv_store"

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	k          VARCHAR(191) NOT NULL PRIMARY KEY,
	v          LONGBLOB     NOT NULL,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// MySQLKV keeps values in a single key/value table.
type MySQLKV struct {
	db *sql.DB
}

// NewMySQLKV wraps an open connection pool.
func NewMySQLKV(db *sql.DB) *MySQLKV { return &MySQLKV{db: db} }

// EnsureSchema creates the key/value table when it does not exist.
func (m *MySQLKV) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, kvSchema)
	return err
}

// Get selects the value for key.
func (m *MySQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := sq.Select("v").From(kvTable).Where(sq.Eq{"k": key}).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	var v []byte
	err = m.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	return v, err
}

// Set upserts the value for key.
func (m *MySQLKV) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := sq.Insert(kvTable).
		Columns("k", "v").
		Values(key, value).
		Suffix("ON DUPLICATE KEY UPDATE v = VALUES(v)").
		ToSql()
	if err != nil {
		return err
	}
	_, err = m.db.ExecContext(ctx, query, args...)
	return err
}

// Delete removes the row for key.
func (m *MySQLKV) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete(kvTable).Where(sq.Eq{"k": key}).ToSql()
	if err != nil {
		return err
	}
	_, err = m.db.ExecContext(ctx, query, args...)
	return err
}

var _ KV = (*MySQLKV)(nil)
