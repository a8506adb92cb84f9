package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
)

type CategoryStore interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
	ActiveByCode(ctx context.Context, code string) (*domain.Category, error)
}

type ProductStore interface {
	CountActiveByCategory(ctx context.Context, code string) (int64, error)
	PageByCategory(ctx context.Context, code, keyword string, pr domain.PageRequest) (domain.ProductPage, error)
}

type VariantStore interface {
	ByProductIDs(ctx context.Context, ids []int64) ([]domain.ProductVariant, error)
}

type CampaignStore interface {
	ByProductIDs(ctx context.Context, ids []int64) (map[int64][]domain.Campaign, error)
}

type CatalogService struct {
	Cats      CategoryStore
	Prods     ProductStore
	Variants  VariantStore
	Campaigns CampaignStore
	Now       func() time.Time
}

func NewCatalogService(cats CategoryStore, prods ProductStore, variants VariantStore, campaigns CampaignStore) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Variants: variants, Campaigns: campaigns, Now: time.Now}
}

type CategorySummary struct {
	CategoryCode string `json:"categoryCode"`
	DisplayName  string `json:"displayName"`
	HeroImageURL string `json:"heroImageUrl"`
	LeadText     string `json:"leadText"`
	ProductCount int64  `json:"productCount"`
}

type CategoryInfo struct {
	CategoryCode string `json:"categoryCode"`
	DisplayName  string `json:"displayName"`
	HeroImageURL string `json:"heroImageUrl"`
	LeadText     string `json:"leadText"`
}

type CampaignBadge struct {
	CampaignCode string `json:"campaignCode"`
	BadgeText    string `json:"badgeText"`
}

// ProductSummary carries the representative (first) variant's fields; they are
// null when the product has no variant.
type ProductSummary struct {
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	Description     string          `json:"description"`
	Price           json.Number     `json:"price"`
	Manufacturer    *string         `json:"manufacturer"`
	ModelName       *string         `json:"modelName"`
	StorageCapacity *string         `json:"storageCapacity"`
	ColorCode       *string         `json:"colorCode"`
	ColorName       *string         `json:"colorName"`
	ImageURLs       []string        `json:"imageUrls"`
	Campaigns       []CampaignBadge `json:"campaigns"`
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

type DetailMeta struct {
	Pagination Pagination `json:"pagination"`
}

type CategoryDetail struct {
	Category CategoryInfo     `json:"category"`
	Products []ProductSummary `json:"products"`
	Meta     DetailMeta       `json:"meta"`
}

type Recommendations struct {
	Recommendations []ProductSummary `json:"recommendations"`
}

// CategoryQuery is an already-validated detail request.
type CategoryQuery struct {
	Keyword string
	Page    int
	Size    int
	Sort    string
	Order   string
}

func (q CategoryQuery) pageRequest() domain.PageRequest {
	pr := domain.PageRequest{Page: q.Page, Size: q.Size, Sort: domain.SortByName}
	switch q.Sort {
	case "price":
		pr.Sort = domain.SortByPrice
	case "createdAt":
		pr.Sort = domain.SortByCreatedAt
	}
	pr.Desc = strings.EqualFold(q.Order, "desc")
	return pr
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	cats, err := s.Cats.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	out := make([]CategorySummary, 0, len(cats))
	for _, c := range cats {
		n, err := s.Prods.CountActiveByCategory(ctx, c.Code)
		if err != nil {
			return nil, fmt.Errorf("counting products of %s: %w", c.Code, err)
		}
		out = append(out, CategorySummary{
			CategoryCode: c.Code,
			DisplayName:  c.DisplayName,
			HeroImageURL: c.HeroImageURL,
			LeadText:     c.LeadText,
			ProductCount: n,
		})
	}
	return out, nil
}

func (s *CatalogService) GetCategoryDetail(ctx context.Context, code string, q CategoryQuery) (*CategoryDetail, error) {
	cat, err := s.activeCategory(ctx, code)
	if err != nil {
		return nil, err
	}
	pr := q.pageRequest()
	page, err := s.Prods.PageByCategory(ctx, cat.Code, q.Keyword, pr)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	ids := make([]int64, len(page.Products))
	for i, p := range page.Products {
		ids[i] = p.ID
	}
	variants, err := s.Variants.ByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading variants: %w", err)
	}
	campaigns, err := s.Campaigns.ByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}

	first := make(map[int64]domain.ProductVariant, len(ids))
	for _, v := range variants {
		if _, seen := first[v.ProductID]; !seen {
			first[v.ProductID] = v
		}
	}

	now := s.Now()
	items := make([]ProductSummary, 0, len(page.Products))
	for _, p := range page.Products {
		item := ProductSummary{
			ProductID:   p.ID,
			ProductName: p.Name,
			Description: p.Description,
			Price:       json.Number(p.Price.StringFixed(2)),
			ImageURLs:   []string{},
			Campaigns:   []CampaignBadge{},
		}
		if v, ok := first[p.ID]; ok {
			item.Manufacturer = &v.Manufacturer
			item.ModelName = &v.ModelName
			item.StorageCapacity = &v.StorageCapacity
			item.ColorCode = &v.ColorCode
			item.ColorName = &v.ColorName
			item.ImageURLs = v.ImageURLs()
		}
		for _, c := range campaigns[p.ID] {
			if c.CurrentlyValid(now) {
				item.Campaigns = append(item.Campaigns, CampaignBadge{CampaignCode: c.Code, BadgeText: c.BadgeText})
			}
		}
		items = append(items, item)
	}

	return &CategoryDetail{
		Category: CategoryInfo{
			CategoryCode: cat.Code,
			DisplayName:  cat.DisplayName,
			HeroImageURL: cat.HeroImageURL,
			LeadText:     cat.LeadText,
		},
		Products: items,
		Meta: DetailMeta{Pagination: Pagination{
			Page:    q.Page,
			PerPage: q.Size,
			Total:   page.Total,
			Pages:   page.Pages(q.Size),
		}},
	}, nil
}

// GetRecommendations is a placeholder until a recommendation source exists;
// it always returns an empty list for an active category.
func (s *CatalogService) GetRecommendations(ctx context.Context, code string) (*Recommendations, error) {
	if _, err := s.activeCategory(ctx, code); err != nil {
		return nil, err
	}
	return &Recommendations{Recommendations: []ProductSummary{}}, nil
}

func (s *CatalogService) activeCategory(ctx context.Context, code string) (*domain.Category, error) {
	cat, err := s.Cats.ActiveByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("loading category %s: %w", code, err)
	}
	return cat, nil
}
