package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// RedisCache encapsula o cache do snapshot corrente por evento
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis do snapshot corrente de um evento
func key(eventID string) string { return "odds:current:" + eventID }

// SetCurrent armazena o snapshot corrente de um evento no Redis com TTL definido
func (r *RedisCache) SetCurrent(ctx context.Context, e events.OddsSnapshot) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(e.EventID), b, r.TTL).Err()
}
