package repos

import (
	"context"
	"strings"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// sortColumns is the closed set of ORDER BY targets; callers never supply column text.
var sortColumns = map[domain.SortField]string{
	domain.SortByName:      "p.name",
	domain.SortByPrice:     "p.price",
	domain.SortByCreatedAt: "p.created_at",
}

func (r *ProductRepo) CountActiveByCategory(ctx context.Context, code string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(
		`SELECT COUNT(*) FROM products WHERE category_code = ? AND is_active = TRUE`), code)
	return n, err
}

// PageByCategory returns one page of active products in the category plus the
// total number of matches. A non-empty keyword is matched as a case-insensitive
// substring of the name or the description.
func (r *ProductRepo) PageByCategory(ctx context.Context, code, keyword string, pr domain.PageRequest) (domain.ProductPage, error) {
	where := ` FROM products p WHERE p.category_code = ? AND p.is_active = TRUE`
	args := []any{code}
	if keyword != "" {
		// Both sides go through the database's LOWER so folding agrees;
		// sqlite only folds ASCII.
		pat := "%" + escapeLike(keyword) + "%"
		where += ` AND (LOWER(p.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(COALESCE(p.description,'')) LIKE LOWER(?) ESCAPE '\')`
		args = append(args, pat, pat)
	}

	page := domain.ProductPage{Products: []domain.Product{}}
	if err := r.db.GetContext(ctx, &page.Total, r.db.Rebind(`SELECT COUNT(*)`+where), args...); err != nil {
		return page, err
	}
	if page.Total == 0 {
		return page, nil
	}

	col, ok := sortColumns[pr.Sort]
	if !ok {
		col = sortColumns[domain.SortByName]
	}
	dir := " ASC"
	if pr.Desc {
		dir = " DESC"
	}
	q := `SELECT p.id, p.name, COALESCE(p.description,'') AS description, p.price, p.category_code, p.is_active` +
		where + ` ORDER BY ` + col + dir + `, p.id` + dir + ` LIMIT ? OFFSET ?`
	args = append(args, pr.Size, pr.Offset())
	err := r.db.SelectContext(ctx, &page.Products, r.db.Rebind(q), args...)
	return page, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
