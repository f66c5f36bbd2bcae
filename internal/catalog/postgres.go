package catalog

import (
	"context"
	"database/sql"
	stderrors "errors"

	"event-package-workers/internal/common/errors"
	"event-package-workers/internal/recommend"

	"github.com/lib/pq"
)

const productsQuery = `
	SELECT id, name, category, price, capacity, sponsored
	FROM products
	WHERE active = TRUE AND category = ANY($1)
	ORDER BY created_at, id
	LIMIT $2`

const ratingsQuery = `
	SELECT product_id, AVG(rating)
	FROM product_ratings
	WHERE product_id = ANY($1)
	GROUP BY product_id`

// PostgresProvider reads the products table and joins the rating aggregate
// in a second query. Seq is the row position in (created_at, id) order.
type PostgresProvider struct {
	db      *sql.DB
	maxSize int
}

func NewPostgresProvider(db *sql.DB, maxSize int) *PostgresProvider {
	return &PostgresProvider{db: db, maxSize: maxSize}
}

func (p *PostgresProvider) Snapshot(ctx context.Context, categories []string) ([]recommend.Product, error) {
	products, err := p.loadProducts(ctx, sortedCategories(categories))
	if err != nil {
		return nil, p.wrap(ctx, err)
	}
	if len(products) == 0 {
		return products, nil
	}

	if err := p.attachRatings(ctx, products); err != nil {
		return nil, p.wrap(ctx, err)
	}
	return products, nil
}

func (p *PostgresProvider) loadProducts(ctx context.Context, categories []string) ([]recommend.Product, error) {
	// LIMIT NULL is unlimited.
	var limit interface{}
	if p.maxSize > 0 {
		limit = p.maxSize
	}

	rows, err := p.db.QueryContext(ctx, productsQuery, pq.Array(categories), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]recommend.Product, 0, 64)
	for rows.Next() {
		var (
			prod      recommend.Product
			name      sql.NullString
			price     sql.NullFloat64
			capacity  sql.NullInt64
			sponsored sql.NullBool
		)
		if err := rows.Scan(&prod.ID, &name, &prod.Category, &price, &capacity, &sponsored); err != nil {
			return nil, err
		}

		prod.Name = name.String
		if price.Valid {
			v := price.Float64
			prod.Price = &v
		}
		if capacity.Valid {
			v := int(capacity.Int64)
			prod.Capacity = &v
		}
		prod.Sponsored = sponsored.Valid && sponsored.Bool
		prod.Seq = len(products)

		products = append(products, prod)
	}
	return products, rows.Err()
}

func (p *PostgresProvider) attachRatings(ctx context.Context, products []recommend.Product) error {
	ids := make([]string, len(products))
	byID := make(map[string]int, len(products))
	for i, prod := range products {
		ids[i] = prod.ID
		byID[prod.ID] = i
	}

	rows, err := p.db.QueryContext(ctx, ratingsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			avg sql.NullFloat64
		)
		if err := rows.Scan(&id, &avg); err != nil {
			return err
		}
		i, ok := byID[id]
		if !ok || !avg.Valid {
			continue
		}
		v := avg.Float64
		products[i].AverageRating = &v
	}
	return rows.Err()
}

func (p *PostgresProvider) wrap(ctx context.Context, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return errors.NewCatalogTimeoutError("postgres")
	}
	return errors.NewCatalogFetchFailedError("postgres", err)
}
