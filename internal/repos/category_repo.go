package repos

import (
	"context"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `
    category_code,
    display_name,
    COALESCE(hero_image_url,'') AS hero_image_url,
    COALESCE(lead_text,'') AS lead_text,
    display_order,
    is_active`

// ListActive orders by display_order; equal orders keep insertion order.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT`+categoryCols+`
  FROM categories
  WHERE is_active = TRUE
  ORDER BY display_order ASC, id ASC
`)
	return out, err
}

// ActiveByCode returns sql.ErrNoRows for unknown and inactive codes alike.
func (r *CategoryRepo) ActiveByCode(ctx context.Context, code string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`
  SELECT`+categoryCols+`
  FROM categories
  WHERE category_code = ? AND is_active = TRUE
`), code)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
