package events

import (
	"context"

	"github.com/taskhub/taskhub-backend/internal/user/domain"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/messaging"
)

// UserEventPublisher publishes user-related events
type UserEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewUserEventPublisher creates a new user event publisher
func NewUserEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*UserEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeUserEvents, "taskhub-server", log)
	if err != nil {
		return nil, err
	}

	return &UserEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishUserRegistered publishes a user registered event.
// Publishing is best-effort; failures are logged and never fail the request.
func (p *UserEventPublisher) PublishUserRegistered(ctx context.Context, user *domain.User) {
	p.publish(ctx, messaging.EventUserRegistered, user)
}

// PublishUserUpdated publishes a user updated event
func (p *UserEventPublisher) PublishUserUpdated(ctx context.Context, user *domain.User) {
	p.publish(ctx, messaging.EventUserUpdated, user)
}

func (p *UserEventPublisher) publish(ctx context.Context, eventType string, user *domain.User) {
	data := messaging.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}

	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", user.ID).Str("event", eventType).Msg("failed to publish user event")
	}
}
