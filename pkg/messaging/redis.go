// Package messaging은 Redis pub/sub 기반의 이벤트 발행 클라이언트입니다.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher는 채널에 메시지를 발행합니다.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisClientFrom은 이미 열린 연결을 공유하는 Publisher를 반환합니다. 연결의 수명은 호출자가 관리합니다.
func NewRedisClientFrom(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

// Publish는 메시지를 JSON으로 직렬화해 발행합니다.
func (r *redisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	return r.client.Publish(ctx, channel, payload).Err()
}
