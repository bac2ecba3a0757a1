package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestStateRepoSaveError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStateRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_state")).
		WithArgs(StateKey, `{"currentDay":1}`).
		WillReturnError(errors.New("database is locked"))

	err := repo.Save(context.Background(), []byte(`{"currentDay":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state save")
	assert.Contains(t, err.Error(), "database is locked")
}

func TestStateRepoLoadNoRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStateRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM app_state WHERE key = ?")).
		WithArgs(StateKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	blob, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestStateRepoLoadError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStateRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM app_state")).
		WithArgs(StateKey).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state select")
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE app_state")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE app_state SET value = '{}'`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithTxCommits(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, WithTx(context.Background(), db, func(*sql.Tx) error { return nil }))
}

func TestBackupLogRecordError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBackupLogRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO backup_log")).
		WillReturnError(errors.New("readonly database"))

	_, err := repo.Record(context.Background(), BackupExport, "/tmp/a.json", 10, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup log insert")
}

func TestMigrateRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS app_state")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS backup_log")).
		WillReturnError(errors.New("duplicate column name: bytes"))
	mock.ExpectRollback()

	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
}
