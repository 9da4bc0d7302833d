package notification_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/notification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupNotificationRepo(t *testing.T) (notification.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return notification.NewRepository(gdb), mock
}

func TestRepository_MarkRead_KeepsFirstReadTime(t *testing.T) {
	repo, mock := setupNotificationRepo(t)
	id, recipientID := uuid.NewString(), uuid.NewString()
	at := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET "is_read"=\$1,"read_at"=COALESCE\(read_at, \$2\) WHERE id = \$3 AND recipient_id = \$4`).
		WithArgs(true, at, id, recipientID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.MarkRead(context.Background(), recipientID, id, at)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBatch_Empty(t *testing.T) {
	repo, mock := setupNotificationRepo(t)

	err := repo.CreateBatch(context.Background(), nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByRecipient(t *testing.T) {
	repo, mock := setupNotificationRepo(t)
	recipientID := uuid.NewString()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE recipient_id = \$1 AND is_read = \$2`).
		WithArgs(recipientID, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE recipient_id = \$1 AND is_read = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(recipientID, false, 5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "type", "title", "message", "is_read"}).
			AddRow(uuid.NewString(), recipientID, notification.TypeLeaveApplied, "New leave application", "body", false))

	items, total, err := repo.ListByRecipient(context.Background(), recipientID, notification.ListFilter{UnreadOnly: true, Page: 2, Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
