// Package cache implementa un StatsCache en memoria del proceso, usado cuando no hay Redis.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/scims-analytics/internal/application/reports"
	"github.com/jhoicas/scims-analytics/internal/domain/sales"
)

var _ reports.StatsCache = (*MemoryStatsCache)(nil)

const (
	defaultMaxEntries = 512
	defaultTTL        = 5 * time.Minute
)

// MemoryStatsCache LRU con tope de entradas y vencimiento. Seguro para uso concurrente.
// El TTL es el del cache completo; el ttl de Set solo decide si la entrada se guarda.
type MemoryStatsCache struct {
	lru *expirable.LRU[string, sales.StatisticsBundle]
}

// NewMemoryStatsCache construye el cache. maxEntries <= 0 y ttl <= 0 usan los valores por defecto.
func NewMemoryStatsCache(maxEntries int, ttl time.Duration) *MemoryStatsCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStatsCache{
		lru: expirable.NewLRU[string, sales.StatisticsBundle](maxEntries, nil, ttl),
	}
}

// Get devuelve una copia del bundle si la clave existe y no venció.
func (c *MemoryStatsCache) Get(_ context.Context, key string) (*sales.StatisticsBundle, bool, error) {
	b, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return &b, true, nil
}

// Set guarda el bundle; al llegar al tope se descarta el menos usado recientemente.
func (c *MemoryStatsCache) Set(_ context.Context, key string, bundle *sales.StatisticsBundle, ttl time.Duration) error {
	if bundle == nil || ttl <= 0 {
		return nil
	}
	c.lru.Add(key, *bundle)
	return nil
}

// Len número de entradas almacenadas.
func (c *MemoryStatsCache) Len() int {
	return c.lru.Len()
}
