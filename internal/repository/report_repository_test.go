package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Soft-deleted models turn deletes into UPDATE statements; the
// expectations below match on those.
func setupMockRepo(t *testing.T) (ReportRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewReportRepository(db), mock
}

func TestConfirmCompletion_DeletesReportAndTask(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reports` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `tasks` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ConfirmCompletion(7, 3)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmCompletion_ReportMissingRollsBack(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reports` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ConfirmCompletion(7, 3)
	require.ErrorIs(t, err, ErrReportMissing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmCompletion_TaskMissingRollsBack(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reports` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `tasks` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ConfirmCompletion(7, 3)
	require.ErrorIs(t, err, ErrTaskMissing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmCompletion_TaskDeleteFailureRollsBack(t *testing.T) {
	repo, mock := setupMockRepo(t)

	dbErr := errors.New("lock wait timeout")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reports` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `tasks` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnError(dbErr)
	mock.ExpectRollback()

	err := repo.ConfirmCompletion(7, 3)
	require.ErrorIs(t, err, dbErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDs_ReportsRowsAffected(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reports` SET `deleted_at`").
		WithArgs(sqlmock.AnyArg(), 1, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	rows, err := repo.DeleteByIDs([]uint64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, int64(2), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
