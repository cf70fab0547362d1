package messaging

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/institute-backend/pkg/messaging"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/event"
	"go.uber.org/zap"
)

// redisEventPublisher publishes payment events on a Redis channel
type redisEventPublisher struct {
	publisher messaging.Publisher
	channel   string
}

// NewRedisEventPublisher publishes to channel and to channel:<admission id>
func NewRedisEventPublisher(publisher messaging.Publisher, channel string) event.Publisher {
	return &redisEventPublisher{
		publisher: publisher,
		channel:   channel,
	}
}

func (p *redisEventPublisher) PublishPaymentVerified(ctx context.Context, evt *event.PaymentVerified) error {
	if evt == nil {
		return fmt.Errorf("event is nil")
	}

	if err := p.publisher.Publish(ctx, p.channel, evt); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	admissionChannel := fmt.Sprintf("%s:%s", p.channel, evt.AdmissionID)
	if err := p.publisher.Publish(ctx, admissionChannel, evt); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", evt.Type, admissionChannel, err)
	}
	return nil
}

// logEventPublisher only logs events. Used when Redis is disabled.
type logEventPublisher struct {
	logger *zap.Logger
}

func NewLogEventPublisher(logger *zap.Logger) event.Publisher {
	return &logEventPublisher{logger: logger}
}

func (p *logEventPublisher) PublishPaymentVerified(ctx context.Context, evt *event.PaymentVerified) error {
	p.logger.Info("Payment event",
		zap.String("type", evt.Type),
		zap.String("admission_id", evt.AdmissionID.String()),
		zap.String("receipt_number", evt.ReceiptNumber),
		zap.String("amount", evt.Amount.StringFixed(2)))
	return nil
}
