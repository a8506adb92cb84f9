package repos

import (
	"context"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CampaignRepo struct{ db *sqlx.DB }

func NewCampaignRepo(db *sqlx.DB) *CampaignRepo { return &CampaignRepo{db: db} }

type productCampaignRow struct {
	domain.ProductCampaign
	domain.Campaign
}

// ByProductIDs returns every campaign linked to the given products, keyed by
// product id. Validity is not filtered here.
func (r *CampaignRepo) ByProductIDs(ctx context.Context, ids []int64) (map[int64][]domain.Campaign, error) {
	out := map[int64][]domain.Campaign{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
  SELECT
    pc.product_id,
    pc.campaign_id,
    c.id,
    c.campaign_code,
    c.campaign_name,
    COALESCE(c.badge_text,'') AS badge_text,
    c.valid_from,
    c.valid_to,
    c.is_active
  FROM product_campaigns pc
  JOIN campaigns c ON c.id = pc.campaign_id
  WHERE pc.product_id IN (?)
  ORDER BY pc.product_id, c.id
`, ids)
	if err != nil {
		return nil, err
	}
	var rows []productCampaignRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = append(out[row.ProductID], row.Campaign)
	}
	return out, nil
}
