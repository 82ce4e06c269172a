package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
)

// Draft basket mirror: draft:{buyer_id} -> JSON snapshot of the basket.
const keyDraft = "draft:%s"

// commands is the slice of the redis client the mirror uses; a stub satisfies
// it in tests.
type commands interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Mirror keeps a TTL-bounded copy of draft baskets in Redis so a buyer can
// continue a draft from another device without waiting for the repository.
type Mirror struct {
	client commands
	ttl    time.Duration
	logger *slog.Logger
}

// New connects a Mirror to the given Redis address.
func New(addr string, ttl time.Duration, logger *slog.Logger) *Mirror {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &Mirror{client: client, ttl: ttl, logger: logger}
}

func (m *Mirror) Put(ctx context.Context, basket model.DraftBasket) error {
	raw, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return m.client.Set(ctx, fmt.Sprintf(keyDraft, basket.BuyerID), raw, m.ttl).Err()
}

func (m *Mirror) Get(ctx context.Context, buyerID string) (*model.DraftBasket, error) {
	raw, err := m.client.Get(ctx, fmt.Sprintf(keyDraft, buyerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	var basket model.DraftBasket
	if err := json.Unmarshal(raw, &basket); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &basket, nil
}

func (m *Mirror) Drop(ctx context.Context, buyerID string) error {
	return m.client.Del(ctx, fmt.Sprintf(keyDraft, buyerID)).Err()
}

// Close releases the underlying client when the mirror owns one.
func (m *Mirror) Close() error {
	if closer, ok := m.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
