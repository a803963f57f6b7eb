// Package redis implementa el cache de estadísticas de reportes sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/scims-analytics/internal/application/reports"
	"github.com/jhoicas/scims-analytics/internal/domain/sales"
	"github.com/jhoicas/scims-analytics/pkg/config"
)

var _ reports.StatsCache = (*StatsCache)(nil)

// DefaultStatsTTL TTL usado si Set recibe ttl <= 0.
const DefaultStatsTTL = 5 * time.Minute

// StatsCache guarda StatisticsBundle serializado como JSON con TTL.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache construye el cache sobre un cliente existente.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// NewClient crea el cliente Redis desde la configuración y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// Get devuelve (nil, false, nil) si la clave no existe.
func (c *StatsCache) Get(ctx context.Context, key string) (*sales.StatisticsBundle, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	var bundle sales.StatisticsBundle
	if err := json.Unmarshal(val, &bundle); err != nil {
		return nil, false, fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return &bundle, true, nil
}

// Set guarda el bundle con TTL.
func (c *StatsCache) Set(ctx context.Context, key string, bundle *sales.StatisticsBundle, ttl time.Duration) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("redis: marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
