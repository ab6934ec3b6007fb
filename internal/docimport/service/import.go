package service

import (
	"context"
	"io"
	"strings"

	"github.com/taskhub/taskhub-backend/internal/docimport/domain"
	"github.com/taskhub/taskhub-backend/internal/docimport/extract"
	"github.com/taskhub/taskhub-backend/internal/docimport/parser"
	"github.com/taskhub/taskhub-backend/internal/docimport/repository"
	"github.com/taskhub/taskhub-backend/internal/docimport/storage"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// Upload describes one uploaded document
type Upload struct {
	Filename  string
	Extension string
	Content   io.Reader
}

// EventPublisher announces completed imports
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, record *domain.ImportedRecord)
}

// ImportService orchestrates the document import pipeline:
// store the file, resolve its text, parse labeled fields, persist
// the record and announce completion.
type ImportService struct {
	store      *storage.FileStore
	resolver   *extract.Resolver
	recordRepo *repository.RecordRepository
	events     EventPublisher
	logger     *logger.Logger
}

// NewImportService creates a new import service
func NewImportService(
	store *storage.FileStore,
	resolver *extract.Resolver,
	recordRepo *repository.RecordRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *ImportService {
	return &ImportService{
		store:      store,
		resolver:   resolver,
		recordRepo: recordRepo,
		events:     publisher,
		logger:     log,
	}
}

// Import runs the pipeline for one upload. Extraction failures never
// fail the import; an unreadable document still yields a record with
// the fallback name. Storage and database errors propagate.
func (s *ImportService) Import(ctx context.Context, upload *Upload, uploaderID *string) (*domain.ImportedRecord, error) {
	filename, path, err := s.store.Save(upload.Filename, upload.Content)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", upload.Filename).Msg("failed to store upload")
		return nil, errors.Internal("failed to store uploaded file")
	}

	text := s.resolver.Resolve(ctx, path, strings.ToLower(upload.Extension))
	fields := parser.Parse(text)

	record := &domain.ImportedRecord{
		Filename:   filename,
		Name:       fields.Name,
		Email:      fields.Email,
		Phone:      fields.Phone,
		Address:    fields.Address,
		City:       fields.City,
		State:      fields.State,
		Zip:        fields.Zip,
		DOB:        fields.DOB,
		Gender:     fields.Gender,
		Occupation: fields.Occupation,
		UserID:     uploaderID,
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("record_id", record.ID).
		Str("filename", record.Filename).
		Int("fields_found", record.FieldsFound()).
		Msg("document imported")

	s.events.PublishImportCompleted(ctx, record)

	return record, nil
}

// Get returns an imported record if the principal may view it
func (s *ImportService) Get(ctx context.Context, p *principal.Principal, id string) (*domain.ImportedRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.CanViewImport(p, record.UserID) {
		return nil, errors.Forbidden("you do not have access to this record")
	}

	return record, nil
}

// List lists imported records visible to the principal. Admins see
// every record; regular users see only their own uploads.
func (s *ImportService) List(ctx context.Context, p *principal.Principal) ([]*domain.ImportedRecord, error) {
	userID := ""
	if !principal.CanListAllImports(p) {
		userID = p.ID
	}

	records, err := s.recordRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []*domain.ImportedRecord{}
	}

	return records, nil
}
