package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"event-package-workers/internal/common/errors"
	"event-package-workers/internal/recommend"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// productDocument is the indexed form of a product. averageRating is
// denormalised by the indexer.
// MaxResultWindow is Elasticsearch's default index.max_result_window, the
// largest page a single search may return. It bounds an unlimited catalog.
const MaxResultWindow = 10000

type productDocument struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         *float64 `json:"price"`
	Capacity      *int     `json:"capacity"`
	Sponsored     bool     `json:"sponsored"`
	AverageRating *float64 `json:"averageRating"`
	Seq           int      `json:"seq"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source productDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ElasticsearchProvider searches the products index with a terms filter on
// category, sorted by seq.
type ElasticsearchProvider struct {
	client  *elasticsearch.Client
	index   string
	maxSize int
}

func NewElasticsearchProvider(client *elasticsearch.Client, index string, maxSize int) *ElasticsearchProvider {
	return &ElasticsearchProvider{client: client, index: index, maxSize: maxSize}
}

func buildSnapshotQuery(categories []string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"terms": map[string]interface{}{"category": categories}},
					map[string]interface{}{"term": map[string]interface{}{"active": true}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"seq": "asc"},
			map[string]interface{}{"id": "asc"},
		},
	}
}

func (p *ElasticsearchProvider) Snapshot(ctx context.Context, categories []string) ([]recommend.Product, error) {
	body, err := json.Marshal(buildSnapshotQuery(sortedCategories(categories)))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Without an explicit size the search returns only 10 hits.
	size := p.maxSize
	if size <= 0 || size > MaxResultWindow {
		size = MaxResultWindow
	}
	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, p.client)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewCatalogTimeoutError("elasticsearch")
		}
		return nil, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewCatalogSearchFailedError(p.index, fmt.Errorf("search returned %s", res.Status()))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, errors.NewCatalogSearchFailedError(p.index, fmt.Errorf("decode response: %w", err))
	}

	products := make([]recommend.Product, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		doc := hit.Source
		products = append(products, recommend.Product{
			ID:            doc.ID,
			Name:          doc.Name,
			Category:      doc.Category,
			Price:         doc.Price,
			Capacity:      doc.Capacity,
			Sponsored:     doc.Sponsored,
			AverageRating: doc.AverageRating,
			Seq:           doc.Seq,
		})
	}
	return products, nil
}
