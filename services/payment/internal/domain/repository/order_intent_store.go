package repository

import (
	"context"
	"time"

	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
)

// OrderIntentStore caches PaymentOrderIntents until they expire.
type OrderIntentStore interface {
	Put(ctx context.Context, intent *entity.PaymentOrderIntent, ttl time.Duration) error
	// Get returns nil, nil when the intent is unknown or expired.
	Get(ctx context.Context, orderID string) (*entity.PaymentOrderIntent, error)
}
