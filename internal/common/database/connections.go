// internal/common/database/connections.go
package database

import (
	"context"
	"fmt"

	"event-package-workers/internal/common/config"
)

// Pinger is satisfied by every client in this package.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connections holds the stores required by the configured catalog source.
// Unused fields stay nil.
type Connections struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Open connects only what cfg.Recommendation needs.
func Open(ctx context.Context, cfg *config.Config) (*Connections, error) {
	conns := &Connections{}

	switch cfg.Recommendation.CatalogSource {
	case config.CatalogSourcePostgres:
		pg, err := NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		conns.Postgres = pg
	case config.CatalogSourceElasticsearch:
		es, err := NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, err
		}
		if err := es.Ping(ctx); err != nil {
			return nil, err
		}
		conns.Elasticsearch = es
	}

	if cfg.Recommendation.CacheEnabled {
		rdb, err := NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Redis = rdb
	}

	return conns, nil
}

// Check pings every open connection; used by the readiness probe.
func (c *Connections) Check(ctx context.Context) error {
	for name, p := range c.pingers() {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c *Connections) pingers() map[string]Pinger {
	out := make(map[string]Pinger, 3)
	if c.Postgres != nil {
		out["postgres"] = c.Postgres
	}
	if c.Redis != nil {
		out["redis"] = c.Redis
	}
	if c.Elasticsearch != nil {
		out["elasticsearch"] = c.Elasticsearch
	}
	return out
}

func (c *Connections) Close() {
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}
