package domain

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	Code         string `db:"category_code"`
	DisplayName  string `db:"display_name"`
	HeroImageURL string `db:"hero_image_url"`
	LeadText     string `db:"lead_text"`
	DisplayOrder int    `db:"display_order"`
	Active       bool   `db:"is_active"`
}

type Product struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	Price        decimal.Decimal `db:"price"` // 2 fractional digits
	CategoryCode string          `db:"category_code"`
	Active       bool            `db:"is_active"`
}

type ProductVariant struct {
	ID              int64  `db:"id"`
	ProductID       int64  `db:"product_id"`
	Manufacturer    string `db:"manufacturer"`
	ModelName       string `db:"model_name"`
	StorageCapacity string `db:"storage_capacity"`
	ColorCode       string `db:"color_code"`
	ColorName       string `db:"color_name"`
	ImagesJSON      string `db:"image_urls"`
}

// ImageURLs decodes the stored JSON array. A malformed or empty column yields an empty list.
func (v ProductVariant) ImageURLs() []string {
	urls := []string{}
	if v.ImagesJSON == "" {
		return urls
	}
	if err := json.Unmarshal([]byte(v.ImagesJSON), &urls); err != nil || urls == nil {
		return []string{}
	}
	return urls
}

type Campaign struct {
	ID        int64        `db:"id"`
	Code      string       `db:"campaign_code"`
	Name      string       `db:"campaign_name"`
	BadgeText string       `db:"badge_text"`
	ValidFrom sql.NullTime `db:"valid_from"`
	ValidTo   sql.NullTime `db:"valid_to"`
	Active    bool         `db:"is_active"`
}

// CurrentlyValid reports whether the campaign is active and now falls inside its
// validity window. Either bound may be open.
func (c Campaign) CurrentlyValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom.Valid && now.Before(c.ValidFrom.Time) {
		return false
	}
	if c.ValidTo.Valid && now.After(c.ValidTo.Time) {
		return false
	}
	return true
}

// ProductCampaign is one row of the product/campaign join.
type ProductCampaign struct {
	ProductID  int64 `db:"product_id"`
	CampaignID int64 `db:"campaign_id"`
}

type SortField int

const (
	SortByName SortField = iota
	SortByPrice
	SortByCreatedAt
)

// PageRequest is a zero-based page of a sorted product listing.
type PageRequest struct {
	Page int
	Size int
	Sort SortField
	Desc bool
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

type ProductPage struct {
	Products []Product
	Total    int64
}

// Pages is the ceiling of Total/size.
func (p ProductPage) Pages(size int) int {
	if size <= 0 {
		return 0
	}
	return int((p.Total + int64(size) - 1) / int64(size))
}
