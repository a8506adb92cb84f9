// Package testutil provides a migrated throwaway database and catalog fixtures for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/repos"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// TestDB creates a temporary sqlite file with migrations applied. It is closed
// when the test ends.
func TestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront-test.db")
	db, err := repos.OpenDB(repos.DriverSQLite, path)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(path)
	})
	return db
}

// SeededDB is TestDB plus the demo catalog and user.
func SeededDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := TestDB(t)
	if err := repos.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

// Fixtures inserts rows directly; every helper fails the test on error.
type Fixtures struct {
	T   *testing.T
	DB  *sqlx.DB
	Now time.Time
}

func NewFixtures(t *testing.T, db *sqlx.DB) *Fixtures {
	return &Fixtures{T: t, DB: db, Now: time.Now()}
}

func (f *Fixtures) exec(q string, args ...any) {
	f.T.Helper()
	if _, err := f.DB.Exec(f.DB.Rebind(q), args...); err != nil {
		f.T.Fatalf("fixture %q: %v", q, err)
	}
}

func (f *Fixtures) insertID(q string, args ...any) int64 {
	f.T.Helper()
	var id int64
	if err := f.DB.Get(&id, f.DB.Rebind(q), args...); err != nil {
		f.T.Fatalf("fixture %q: %v", q, err)
	}
	return id
}

func (f *Fixtures) Category(code, name string, order int, active bool) {
	f.T.Helper()
	ts := repos.Timestamp(f.Now)
	f.exec(`INSERT INTO categories(category_code,display_name,hero_image_url,lead_text,display_order,is_active,created_at,updated_at)
	        VALUES(?,?,?,?,?,?,?,?)`, code, name, "/img/"+code+".jpg", name+" lead", order, active, ts, ts)
}

// Product inserts an active-or-not product; createdAt is offset from Now.
func (f *Fixtures) Product(category, name, desc, price string, active bool, age time.Duration) int64 {
	f.T.Helper()
	ts := repos.Timestamp(f.Now.Add(-age))
	return f.insertID(`INSERT INTO products(name,description,price,category_code,is_active,created_at,updated_at)
	        VALUES(?,?,?,?,?,?,?) RETURNING id`, name, desc, price, category, active, ts, ts)
}

func (f *Fixtures) Variant(productID int64, manufacturer, model, storage, colorCode, colorName, imagesJSON string) int64 {
	f.T.Helper()
	ts := repos.Timestamp(f.Now)
	return f.insertID(`INSERT INTO product_variants(product_id,manufacturer,model_name,storage_capacity,color_code,color_name,image_urls,created_at,updated_at)
	        VALUES(?,?,?,?,?,?,?,?,?) RETURNING id`, productID, manufacturer, model, storage, colorCode, colorName, imagesJSON, ts, ts)
}

// Campaign inserts a campaign; nil bounds are open.
func (f *Fixtures) Campaign(code, badge string, from, to *time.Time, active bool) int64 {
	f.T.Helper()
	ts := repos.Timestamp(f.Now)
	var vf, vt any
	if from != nil {
		vf = repos.Timestamp(*from)
	}
	if to != nil {
		vt = repos.Timestamp(*to)
	}
	return f.insertID(`INSERT INTO campaigns(campaign_code,campaign_name,badge_text,valid_from,valid_to,is_active,created_at,updated_at)
	        VALUES(?,?,?,?,?,?,?,?) RETURNING id`, code, code+" campaign", badge, vf, vt, active, ts, ts)
}

func (f *Fixtures) Link(productID, campaignID int64) {
	f.T.Helper()
	f.exec(`INSERT INTO product_campaigns(product_id,campaign_id) VALUES(?,?)`, productID, campaignID)
}

// User stores a bcrypt hash of password at MinCost to keep tests fast.
func (f *Fixtures) User(email, name, password string) int64 {
	f.T.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.T.Fatalf("bcrypt: %v", err)
	}
	ts := repos.Timestamp(f.Now)
	return f.insertID(`INSERT INTO users(email,name,password_hash,created_at,updated_at)
	        VALUES(?,?,?,?,?) RETURNING id`, email, name, string(h), ts, ts)
}
