package events

import (
	"context"

	"github.com/taskhub/taskhub-backend/internal/task/domain"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/messaging"
)

// TaskEventPublisher publishes task-related events
type TaskEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewTaskEventPublisher creates a new task event publisher
func NewTaskEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*TaskEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeTaskEvents, "taskhub-server", log)
	if err != nil {
		return nil, err
	}

	return &TaskEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishTaskCreated publishes a task created event
func (p *TaskEventPublisher) PublishTaskCreated(ctx context.Context, task *domain.Task) {
	p.publish(ctx, messaging.EventTaskCreated, task)
}

// PublishTaskUpdated publishes a task updated event
func (p *TaskEventPublisher) PublishTaskUpdated(ctx context.Context, task *domain.Task) {
	p.publish(ctx, messaging.EventTaskUpdated, task)
}

// PublishTaskDeleted publishes a task deleted event
func (p *TaskEventPublisher) PublishTaskDeleted(ctx context.Context, task *domain.Task) {
	p.publish(ctx, messaging.EventTaskDeleted, task)
}

// publish is best-effort; failures are logged and never fail the request.
func (p *TaskEventPublisher) publish(ctx context.Context, eventType string, task *domain.Task) {
	data := messaging.TaskEvent{
		TaskID:    task.ID,
		UserID:    task.UserID,
		CreatedBy: task.CreatedBy,
		Title:     task.Title,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
	}

	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("task_id", task.ID).Str("event", eventType).Msg("failed to publish task event")
	}
}
