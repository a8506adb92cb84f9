package repos

import (
	"context"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id,email,name,password_hash,created_at,updated_at`

// ByEmail matches case-insensitively. sql.ErrNoRows when absent.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
