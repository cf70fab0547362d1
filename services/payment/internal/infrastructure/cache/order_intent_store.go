package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
)

// redisOrderIntentStore keeps intents as JSON strings with a Redis TTL
type redisOrderIntentStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

func NewRedisOrderIntentStore(client *redis.Client, keyPrefix string, logger *zap.Logger) domainRepo.OrderIntentStore {
	return &redisOrderIntentStore{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (s *redisOrderIntentStore) key(orderID string) string {
	return s.keyPrefix + orderID
}

func (s *redisOrderIntentStore) Put(ctx context.Context, intent *entity.PaymentOrderIntent, ttl time.Duration) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to encode order intent: %w", err)
	}

	if err := s.client.Set(ctx, s.key(intent.OrderID), payload, ttl).Err(); err != nil {
		s.logger.Error("Redis Set failed", zap.String("order_id", intent.OrderID), zap.Error(err))
		return fmt.Errorf("failed to store order intent: %w", err)
	}
	return nil
}

func (s *redisOrderIntentStore) Get(ctx context.Context, orderID string) (*entity.PaymentOrderIntent, error) {
	payload, err := s.client.Get(ctx, s.key(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.logger.Error("Redis Get failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to load order intent: %w", err)
	}

	var intent entity.PaymentOrderIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode order intent: %w", err)
	}
	return &intent, nil
}

// memoryOrderIntentStore is the single-process fallback used when Redis is disabled
type memoryOrderIntentStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	intent    entity.PaymentOrderIntent
	expiresAt time.Time
}

func NewMemoryOrderIntentStore() domainRepo.OrderIntentStore {
	return &memoryOrderIntentStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *memoryOrderIntentStore) Put(ctx context.Context, intent *entity.PaymentOrderIntent, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// expired entries are swept on write so the map does not grow without bound
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[intent.OrderID] = memoryEntry{intent: *intent, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryOrderIntentStore) Get(ctx context.Context, orderID string) (*entity.PaymentOrderIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[orderID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, orderID)
		return nil, nil
	}
	intent := e.intent
	return &intent, nil
}
