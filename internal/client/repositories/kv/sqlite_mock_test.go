package kv

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewSQLiteRepository(db), mock
}

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT value FROM kv WHERE key = \?`).
		WithArgs("token").
		WillReturnError(errors.New("disk I/O error"))

	_, ok, err := repo.Get(context.Background(), "token")
	assert.False(t, ok)
	assert.EqualError(t, err, "failed to get kv[token]: disk I/O error")
}

func TestSet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`(?s)INSERT INTO kv .* ON CONFLICT\(key\) DO UPDATE`).
		WithArgs("user", `{"username":"admin"}`).
		WillReturnError(errors.New("database is locked"))

	err := repo.Set(context.Background(), "user", `{"username":"admin"}`)
	assert.EqualError(t, err, "failed to set kv[user]: database is locked")
}

func TestDelete_BuildsPlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE FROM kv WHERE key IN \(\?,\?,\?\)`).
		WithArgs("token", "user", "loginTime").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Delete(context.Background(), "token", "user", "loginTime"))
}

func TestGetMany_ScanAndIterationErrors(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT key, value FROM kv WHERE key IN \(\?,\?\)`).
		WithArgs("token", "user").
		WillReturnError(sql.ErrConnDone)
	_, err := repo.GetMany(ctx, "token", "user")
	assert.ErrorIs(t, err, sql.ErrConnDone)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("token", "t").
		RowError(0, errors.New("corrupt page"))
	mock.ExpectQuery(`SELECT key, value FROM kv WHERE key IN \(\?\)`).
		WithArgs("token").
		WillReturnRows(rows)
	_, err = repo.GetMany(ctx, "token")
	assert.ErrorContains(t, err, "corrupt page")
}

func TestClear_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE FROM kv`).WillReturnError(errors.New("read-only database"))

	assert.EqualError(t, repo.Clear(context.Background()), "failed to clear kv: read-only database")
}
