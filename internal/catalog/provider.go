// Package catalog loads read-only product snapshots for the recommendation
// engine from Postgres, Elasticsearch or an in-memory list, optionally
// behind a Redis read-through cache.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"event-package-workers/internal/common/config"
	"event-package-workers/internal/common/database"
	"event-package-workers/internal/common/logger"
	"event-package-workers/internal/recommend"
)

// Provider returns the active products of the given categories, ordered by
// the catalog sequence (Seq ascending).
type Provider interface {
	Snapshot(ctx context.Context, categories []string) ([]recommend.Product, error)
}

// StaticProvider serves a fixed product list. Products without a Seq keep
// their list position.
type StaticProvider struct {
	products []recommend.Product
}

func NewStaticProvider(products []recommend.Product) *StaticProvider {
	ordered := make([]recommend.Product, len(products))
	copy(ordered, products)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
	return &StaticProvider{products: ordered}
}

func (s *StaticProvider) Snapshot(_ context.Context, categories []string) ([]recommend.Product, error) {
	wanted := categorySet(categories)
	out := make([]recommend.Product, 0, len(s.products))
	for _, p := range s.products {
		if wanted[p.Category] {
			out = append(out, p)
		}
	}
	return out, nil
}

// New builds the provider for the configured catalog source. It returns a
// nil Provider for the inline source, where every job carries its catalog.
func New(cfg config.RecommendationConfig, conns *database.Connections, log logger.Logger) (Provider, error) {
	var p Provider

	switch cfg.CatalogSource {
	case config.CatalogSourceInline:
		return nil, nil
	case config.CatalogSourcePostgres:
		if conns == nil || conns.Postgres == nil {
			return nil, fmt.Errorf("catalog source %q requires a postgres connection", cfg.CatalogSource)
		}
		p = NewPostgresProvider(conns.Postgres.DB, cfg.MaxCatalogSize)
	case config.CatalogSourceElasticsearch:
		if conns == nil || conns.Elasticsearch == nil {
			return nil, fmt.Errorf("catalog source %q requires an elasticsearch connection", cfg.CatalogSource)
		}
		p = NewElasticsearchProvider(conns.Elasticsearch.Client, cfg.CatalogIndex, cfg.MaxCatalogSize)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}

	if cfg.CacheEnabled {
		if conns.Redis == nil {
			return nil, fmt.Errorf("catalog cache requires a redis connection")
		}
		p = NewCachedProvider(p, conns.Redis.Client, cfg.CatalogSource, cfg.CacheTTL(), log)
	}
	return p, nil
}

func categorySet(categories []string) map[string]bool {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set
}

// sortedCategories returns a sorted, de-duplicated copy.
func sortedCategories(categories []string) []string {
	set := categorySet(categories)
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
