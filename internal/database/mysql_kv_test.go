package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockKV(t *testing.T) (*MySQLKV, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLKV(db), mock
}

func TestMySQLKV_Get(t *testing.T) {
	kv, mock := newMockKV(t)

	mock.ExpectQuery(`SELECT v FROM kv_store WHERE k = \? LIMIT 1`).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow([]byte(`[]`)))

	got, err := kv.Get(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLKV_GetMissing(t *testing.T) {
	kv, mock := newMockKV(t)

	mock.ExpectQuery(`SELECT v FROM kv_store`).
		WithArgs("active").
		WillReturnError(sql.ErrNoRows)

	_, err := kv.Get(context.Background(), "active")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLKV_Set(t *testing.T) {
	kv, mock := newMockKV(t)

	mock.ExpectExec(`INSERT INTO kv_store \(k,v\) VALUES \(\?,\?\) ON DUPLICATE KEY UPDATE v = VALUES\(v\)`).
		WithArgs("active", []byte("user@example.com")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Set(context.Background(), "active", []byte("user@example.com")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLKV_SetError(t *testing.T) {
	kv, mock := newMockKV(t)

	mock.ExpectExec(`INSERT INTO kv_store`).WillReturnError(errors.New("connection refused"))

	err := kv.Set(context.Background(), "users", []byte(`[]`))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLKV_Delete(t *testing.T) {
	kv, mock := newMockKV(t)

	mock.ExpectExec(`DELETE FROM kv_store WHERE k = \?`).
		WithArgs("active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Delete(context.Background(), "active"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLKV_EnsureSchema(t *testing.T) {
	kv, mock := newMockKV(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS kv_store`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConfig_DSN(t *testing.T) {
	cfg := MySQLConfig{User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "cinema"}
	assert.Equal(t, "app:secret@tcp(db:3306)/cinema?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DSN())

	cfg.Pass = ""
	assert.Equal(t, "app@tcp(db:3306)/cinema?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DSN())
}
