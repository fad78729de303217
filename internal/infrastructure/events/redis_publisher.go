package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events on a per-tenant Redis pub/sub channel
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "salepilot"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel name for a tenant
func (p *RedisPublisher) Channel(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:events", p.prefix, tenantID)
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.Channel(event.TenantID), payload).Err()
}
