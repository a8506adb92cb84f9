package handlers

import (
	"storefront/internal/config"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/token"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	HealthHandler   *HealthHandler
	Tokens          TokenVerifier
}

func NewDeps(db *sqlx.DB, cfg *config.Config, signer *token.Signer) *Deps {
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	variantRepo := repos.NewVariantRepo(db)
	campaignRepo := repos.NewCampaignRepo(db)

	authSvc := services.NewAuthService(userRepo, signer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo, variantRepo, campaignRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		HealthHandler:   &HealthHandler{DB: db},
		Tokens:          signer,
	}
}
