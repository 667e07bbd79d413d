package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const productCacheTTL = 5 * time.Minute

// ProductRepository reads through an optional redis cache. Line item
// snapshots make stale prices mostly harmless, but writes still drop
// the key: deleting the key is never the wrong move.
type ProductRepository struct {
	DB    *sql.DB
	Cache *redis.Client // nil disables caching
}

func NewProductRepository(db *sql.DB, cache *redis.Client) *ProductRepository {
	return &ProductRepository{DB: db, Cache: cache}
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		product.ID,
		product.Name,
		nullString(product.Description),
		product.PriceCents,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	if product, ok := r.cacheGet(ctx, id); ok {
		return product, nil
	}

	query := `
		SELECT id, name, COALESCE(description, ''), price_cents, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	product := &entity.Product{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.cacheSet(ctx, product)
	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), price_cents, created_at, updated_at
		FROM products
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*entity.Product{}
	for rows.Next() {
		product := &entity.Product{}
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description,
			&product.PriceCents, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query,
		product.ID,
		product.Name,
		nullString(product.Description),
		product.PriceCents,
	)
	if err != nil {
		return err
	}

	r.cacheDel(ctx, product.ID)
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	r.cacheDel(ctx, id)
	return nil
}

func (r *ProductRepository) cacheGet(ctx context.Context, id string) (*entity.Product, bool) {
	if r.Cache == nil {
		return nil, false
	}

	str, err := r.Cache.Get(ctx, productCacheKey(id)).Result()
	if err != nil {
		// redis.Nil on a miss; anything else falls through to the DB too.
		return nil, false
	}

	product := &entity.Product{}
	if err := json.Unmarshal([]byte(str), product); err != nil {
		return nil, false
	}
	return product, true
}

func (r *ProductRepository) cacheSet(ctx context.Context, product *entity.Product) {
	if r.Cache == nil {
		return
	}
	body, err := json.Marshal(product)
	if err != nil {
		return
	}
	r.Cache.Set(ctx, productCacheKey(product.ID), body, productCacheTTL)
}

func (r *ProductRepository) cacheDel(ctx context.Context, id string) {
	if r.Cache == nil {
		return
	}
	r.Cache.Del(ctx, productCacheKey(id))
}

func productCacheKey(id string) string {
	return fmt.Sprintf("crm|products|id:%s", id)
}
