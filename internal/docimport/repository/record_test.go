package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-backend/internal/docimport/domain"
	"github.com/taskhub/taskhub-backend/internal/docimport/repository"
	"github.com/taskhub/taskhub-backend/pkg/database"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/logger"
)

func newMockRepo(t *testing.T) (*repository.RecordRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := database.FromSqlx(sqlx.NewDb(mockDB, "sqlmock"), logger.New("test", "test"))
	return repository.NewRecordRepository(db), mock
}

func recordColumns() []string {
	return []string{"id", "filename", "name", "email", "phone", "address", "city", "state", "zip",
		"dob", "gender", "occupation", "user_id", "created_at", "updated_at"}
}

func strPtr(s string) *string { return &s }

func TestRecordRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO imported_records").
		WithArgs(sqlmock.AnyArg(), "1700000000_contact.pdf", "John Doe", "john@example.com",
			nil, nil, nil, nil, nil, nil, nil, nil, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	record := &domain.ImportedRecord{
		Filename: "1700000000_contact.pdf",
		Name:     "John Doe",
		Email:    strPtr("john@example.com"),
		UserID:   strPtr("user-1"),
	}

	err := repo.Create(context.Background(), record)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Create_FallbackRecord(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	// An unreadable document still persists, with the fallback name
	// and no extracted fields.
	mock.ExpectQuery("INSERT INTO imported_records").
		WithArgs(sqlmock.AnyArg(), "1700000000_scan.png", "Unknown",
			nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	record := &domain.ImportedRecord{
		Filename: "1700000000_scan.png",
		Name:     "Unknown",
	}

	require.NoError(t, repo.Create(context.Background(), record))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows(recordColumns()).
		AddRow("rec-1", "1700000000_contact.pdf", "John Doe", "john@example.com",
			nil, nil, nil, nil, nil, nil, nil, nil, "user-1", now, now)

	mock.ExpectQuery("SELECT (.+) FROM imported_records").
		WithArgs("rec-1").
		WillReturnRows(rows)

	record, err := repo.GetByID(context.Background(), "rec-1")
	require.NoError(t, err)

	assert.Equal(t, "John Doe", record.Name)
	require.NotNil(t, record.Email)
	assert.Equal(t, "john@example.com", *record.Email)
	assert.Nil(t, record.Phone)
	require.NotNil(t, record.UserID)
	assert.Equal(t, "user-1", *record.UserID)
}

func TestRecordRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM imported_records").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recordColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRecordRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	t.Run("all records", func(t *testing.T) {
		rows := sqlmock.NewRows(recordColumns()).
			AddRow("rec-2", "b.pdf", "Jane", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, now, now).
			AddRow("rec-1", "a.pdf", "John", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, now, now)

		mock.ExpectQuery("SELECT (.+) FROM imported_records").WillReturnRows(rows)

		records, err := repo.List(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, records, 2)
	})

	t.Run("scoped to a user", func(t *testing.T) {
		rows := sqlmock.NewRows(recordColumns()).
			AddRow("rec-1", "a.pdf", "John", nil, nil, nil, nil, nil, nil, nil, nil, nil, "user-1", now, now)

		mock.ExpectQuery("SELECT (.+) FROM imported_records").
			WithArgs("user-1").
			WillReturnRows(rows)

		records, err := repo.List(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "rec-1", records[0].ID)
	})
}

func TestImportedRecord_FieldsFound(t *testing.T) {
	empty := &domain.ImportedRecord{Name: "Unknown"}
	assert.Equal(t, 0, empty.FieldsFound())

	full := &domain.ImportedRecord{
		Name:  "John Doe",
		Email: strPtr("j@x.com"),
		Phone: strPtr("555"),
	}
	assert.Equal(t, 3, full.FieldsFound())
}
