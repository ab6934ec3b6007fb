package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhub/taskhub-backend/internal/docimport/domain"
	"github.com/taskhub/taskhub-backend/pkg/database"
	"github.com/taskhub/taskhub-backend/pkg/errors"
)

// RecordRepository handles imported record persistence
type RecordRepository struct {
	db *database.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *database.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a new imported record. Records are immutable after
// creation; there is no update path.
func (r *RecordRepository) Create(ctx context.Context, record *domain.ImportedRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO imported_records (
			id, filename, name, email, phone, address, city, state, zip,
			dob, gender, occupation, user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		record.ID,
		record.Filename,
		record.Name,
		record.Email,
		record.Phone,
		record.Address,
		record.City,
		record.State,
		record.Zip,
		record.DOB,
		record.Gender,
		record.Occupation,
		record.UserID,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets an imported record by ID
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.ImportedRecord, error) {
	var record domain.ImportedRecord
	query := `
		SELECT id, filename, name, email, phone, address, city, state, zip,
		       dob, gender, occupation, user_id, created_at, updated_at
		FROM imported_records
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &record, query, id)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("imported record")
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// List lists imported records, newest first. An empty userID lists
// every record.
func (r *RecordRepository) List(ctx context.Context, userID string) ([]*domain.ImportedRecord, error) {
	var records []*domain.ImportedRecord

	if userID != "" {
		query := `
			SELECT id, filename, name, email, phone, address, city, state, zip,
			       dob, gender, occupation, user_id, created_at, updated_at
			FROM imported_records
			WHERE user_id = $1
			ORDER BY created_at DESC
		`
		if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
			return nil, err
		}
		return records, nil
	}

	query := `
		SELECT id, filename, name, email, phone, address, city, state, zip,
		       dob, gender, occupation, user_id, created_at, updated_at
		FROM imported_records
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}

	return records, nil
}
