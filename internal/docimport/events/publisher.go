package events

import (
	"context"

	"github.com/taskhub/taskhub-backend/internal/docimport/domain"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/messaging"
)

// ImportEventPublisher publishes import-related events
type ImportEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewImportEventPublisher creates a new import event publisher
func NewImportEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ImportEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeImportEvents, "taskhub-server", log)
	if err != nil {
		return nil, err
	}

	return &ImportEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishImportCompleted publishes an import completed event.
// Publishing is best-effort; failures are logged and never fail the request.
func (p *ImportEventPublisher) PublishImportCompleted(ctx context.Context, record *domain.ImportedRecord) {
	data := messaging.ImportCompletedEvent{
		RecordID:    record.ID,
		Filename:    record.Filename,
		UserID:      record.UserID,
		FieldsFound: record.FieldsFound(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventImportCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("record_id", record.ID).Msg("failed to publish import completed event")
	}
}
