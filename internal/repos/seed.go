package repos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "test@example.com"
	DemoPassword = "password123"
)

// tsLayout is understood by both modernc sqlite (TIMESTAMP columns) and postgres.
const tsLayout = "2006-01-02 15:04:05-07:00"

// Timestamp renders t as a column value for the write path.
func Timestamp(t time.Time) string { return t.UTC().Format(tsLayout) }

type seedCategory struct {
	code, name, hero, lead string
	order                  int
	active                 bool
}

type seedVariant struct {
	manufacturer, model, storage, colorCode, colorName, images string
}

type seedProduct struct {
	name, desc, price, category string
	active                      bool
	variants                    []seedVariant
	campaigns                   []string
}

type seedCampaign struct {
	code, name, badge string
	from, to          *time.Time
	active            bool
}

// Seed fills an empty catalog with demo data and ensures the demo user exists.
// Safe to run on every startup.
func Seed(ctx context.Context, db *sqlx.DB) error {
	if err := seedUsers(ctx, db); err != nil {
		return err
	}
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	slog.Info("seed: inserting demo categories/products/campaigns")
	return seedCatalog(ctx, db, time.Now())
}

func seedUsers(ctx context.Context, db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	now := Timestamp(time.Now())
	_, err = db.ExecContext(ctx, db.Rebind(`
		INSERT INTO users(email,name,password_hash,created_at,updated_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT DO NOTHING
	`), DemoEmail, "Test User", string(h), now, now)
	return err
}

func seedCatalog(ctx context.Context, db *sqlx.DB, now time.Time) error {
	past := now.AddDate(0, -2, 0)
	lastMonth := now.AddDate(0, -1, 0)
	nextMonth := now.AddDate(0, 1, 0)
	nextYear := now.AddDate(1, 0, 0)

	categories := []seedCategory{
		{"iphone", "iPhone", "/images/categories/iphone.jpg", "The latest iPhone lineup.", 1, true},
		{"android", "Android", "/images/categories/android.jpg", "Flagship and mid-range Android phones.", 2, true},
		{"reuse", "Certified Pre-owned", "/images/categories/reuse.jpg", "Inspected, cleaned and guaranteed.", 3, true},
		{"accessories", "Accessories", "/images/categories/accessories.jpg", "Chargers, cables and cases.", 4, true},
		{"feature-phone", "Feature Phones", "", "", 5, false},
	}
	campaigns := []seedCampaign{
		{"NEW_ARRIVAL", "New arrivals", "NEW", nil, nil, true},
		{"AUTUMN_SALE", "Autumn sale", "SALE", &lastMonth, &nextMonth, true},
		{"SPRING_SALE", "Spring sale", "SPRING", &past, &lastMonth, true},
		{"NEXT_YEAR", "Next year's launch", "SOON", &nextMonth, &nextYear, true},
		{"RETIRED", "Retired promotion", "OLD", nil, nil, false},
	}
	products := []seedProduct{
		{"iPhone 15 Pro", "Titanium design with the A17 Pro chip.", "159800.00", "iphone", true,
			[]seedVariant{
				{"Apple", "iPhone 15 Pro", "256GB", "#000000", "Black Titanium", `["/images/products/iphone15pro-black-1.jpg","/images/products/iphone15pro-black-2.jpg"]`},
				{"Apple", "iPhone 15 Pro", "512GB", "#F2F1EB", "White Titanium", `["/images/products/iphone15pro-white-1.jpg"]`},
			},
			[]string{"NEW_ARRIVAL", "SPRING_SALE"}},
		{"iPhone 15", "Dynamic Island and a 48MP main camera.", "124800.00", "iphone", true,
			[]seedVariant{{"Apple", "iPhone 15", "128GB", "#F9E5E8", "Pink", `["/images/products/iphone15-pink-1.jpg"]`}},
			[]string{"AUTUMN_SALE"}},
		{"iPhone SE", "A compact phone with Touch ID.", "62800.00", "iphone", true,
			[]seedVariant{{"Apple", "iPhone SE (3rd generation)", "64GB", "#1F2020", "Midnight", `[]`}},
			[]string{"RETIRED", "NEXT_YEAR"}},
		{"iPhone 12", "Discontinued model.", "79800.00", "iphone", false, nil, nil},
		{"Pixel 8", "Google Tensor G3 and seven years of updates.", "112900.00", "android", true,
			[]seedVariant{{"Google", "Pixel 8", "128GB", "#3C3C3C", "Obsidian", `["/images/products/pixel8-obsidian-1.jpg"]`}},
			[]string{"NEW_ARRIVAL"}},
		{"Galaxy S24", "Galaxy AI on a 6.2-inch display.", "124700.00", "android", true,
			[]seedVariant{{"Samsung", "Galaxy S24", "256GB", "#2B2B35", "Onyx Black", `["/images/products/s24-black-1.jpg"]`}},
			nil},
		{"iPhone 13 (Pre-owned)", "Grade A, battery health 90% or better.", "69800.00", "reuse", true,
			[]seedVariant{{"Apple", "iPhone 13", "128GB", "#215E7C", "Blue", `["/images/products/iphone13-blue-1.jpg"]`}},
			[]string{"AUTUMN_SALE"}},
		{"MagSafe Charger", "Fast wireless charging up to 15W.", "6480.00", "accessories", true, nil, nil},
		{"USB-C Cable (1 m)", "Woven USB-C charge cable.", "2780.00", "accessories", true, nil, nil},
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := Timestamp(now)
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO categories(category_code,display_name,hero_image_url,lead_text,display_order,is_active,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?,?)
			ON CONFLICT(category_code) DO NOTHING
		`), c.code, c.name, nullIfEmpty(c.hero), nullIfEmpty(c.lead), c.order, c.active, ts, ts); err != nil {
			return fmt.Errorf("seed category %s: %w", c.code, err)
		}
	}

	campaignIDs := map[string]int64{}
	for _, c := range campaigns {
		var id int64
		if err := tx.GetContext(ctx, &id, tx.Rebind(`
			INSERT INTO campaigns(campaign_code,campaign_name,badge_text,valid_from,valid_to,is_active,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?,?)
			RETURNING id
		`), c.code, c.name, c.badge, optTimestamp(c.from), optTimestamp(c.to), c.active, ts, ts); err != nil {
			return fmt.Errorf("seed campaign %s: %w", c.code, err)
		}
		campaignIDs[c.code] = id
	}

	for i, p := range products {
		// distinct created_at values give createdAt sorting something to order by
		created := Timestamp(now.Add(-time.Duration(len(products)-i) * time.Hour))
		var id int64
		if err := tx.GetContext(ctx, &id, tx.Rebind(`
			INSERT INTO products(name,description,price,category_code,is_active,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?)
			RETURNING id
		`), p.name, p.desc, p.price, p.category, p.active, created, created); err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
		for _, v := range p.variants {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO product_variants(product_id,manufacturer,model_name,storage_capacity,color_code,color_name,image_urls,created_at,updated_at)
				VALUES(?,?,?,?,?,?,?,?,?)
			`), id, v.manufacturer, v.model, v.storage, v.colorCode, v.colorName, v.images, created, created); err != nil {
				return fmt.Errorf("seed variant for %s: %w", p.name, err)
			}
		}
		for _, code := range p.campaigns {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO product_campaigns(product_id,campaign_id) VALUES(?,?)
			`), id, campaignIDs[code]); err != nil {
				return fmt.Errorf("seed campaign link %s/%s: %w", p.name, code, err)
			}
		}
	}
	return tx.Commit()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Timestamp(*t)
}
