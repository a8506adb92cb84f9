package repos

import (
	"context"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type VariantRepo struct{ db *sqlx.DB }

func NewVariantRepo(db *sqlx.DB) *VariantRepo { return &VariantRepo{db: db} }

// ByProductIDs fetches the variants of all given products in one query, ordered by variant id.
func (r *VariantRepo) ByProductIDs(ctx context.Context, ids []int64) ([]domain.ProductVariant, error) {
	out := []domain.ProductVariant{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
  SELECT
    id,
    product_id,
    COALESCE(manufacturer,'') AS manufacturer,
    COALESCE(model_name,'') AS model_name,
    COALESCE(storage_capacity,'') AS storage_capacity,
    COALESCE(color_code,'') AS color_code,
    COALESCE(color_name,'') AS color_name,
    COALESCE(CAST(image_urls AS TEXT),'') AS image_urls
  FROM product_variants
  WHERE product_id IN (?)
  ORDER BY id
`, ids)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, err
}
