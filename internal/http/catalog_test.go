package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestListCategories(t *testing.T) {
	a := newTestApp(t, nil)

	resp, m := a.get(t, "/api/v1/products/categories")
	if resp.StatusCode != http.StatusOK || m["success"] != true {
		t.Fatalf("status = %d; body=%v", resp.StatusCode, m)
	}
	if m["message"] != "Categories retrieved" {
		t.Errorf("message = %v", m["message"])
	}
	if _, err := uuid.Parse(m["requestId"].(string)); err != nil {
		t.Errorf("requestId %v is not a uuid", m["requestId"])
	}
	if resp.Header.Get("X-Request-ID") != m["requestId"] {
		t.Errorf("header request id %q != body %v", resp.Header.Get("X-Request-ID"), m["requestId"])
	}

	data, _ := m["data"].([]any)
	var codes []string
	for _, d := range data {
		codes = append(codes, d.(map[string]any)["categoryCode"].(string))
	}
	if strings.Join(codes, ",") != "iphone,android,reuse,accessories" {
		t.Fatalf("codes = %v", codes)
	}
	iphone := data[0].(map[string]any)
	if iphone["productCount"] != float64(3) {
		t.Errorf("iphone productCount = %v, want 3 (inactive excluded)", iphone["productCount"])
	}
	if iphone["displayName"] != "iPhone" || iphone["heroImageUrl"] == "" {
		t.Errorf("iphone = %v", iphone)
	}
}

func TestRequestIDsAreFresh(t *testing.T) {
	a := newTestApp(t, nil)
	_, m1 := a.get(t, "/api/v1/products/categories")
	_, m2 := a.get(t, "/api/v1/products/categories")
	if m1["requestId"] == m2["requestId"] {
		t.Fatalf("request ids repeat: %v", m1["requestId"])
	}
}

func productsOf(t *testing.T, m map[string]any) []map[string]any {
	t.Helper()
	data, _ := m["data"].(map[string]any)
	raw, _ := data["products"].([]any)
	out := make([]map[string]any, len(raw))
	for i, p := range raw {
		out[i] = p.(map[string]any)
	}
	return out
}

func paginationOf(m map[string]any) map[string]any {
	data, _ := m["data"].(map[string]any)
	meta, _ := data["meta"].(map[string]any)
	p, _ := meta["pagination"].(map[string]any)
	return p
}

func TestCategoryDetail(t *testing.T) {
	a := newTestApp(t, nil)

	resp, body := a.do(t, mustGet("/api/v1/products/categories/iphone"))
	m := decode(t, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; body=%s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"price":159800.00`) {
		t.Errorf("price should be a two-decimal JSON number; body=%s", body)
	}
	data := m["data"].(map[string]any)
	cat := data["category"].(map[string]any)
	if cat["categoryCode"] != "iphone" || cat["leadText"] == "" {
		t.Errorf("category = %v", cat)
	}

	products := productsOf(t, m)
	var names []string
	for _, p := range products {
		names = append(names, p["productName"].(string))
	}
	if strings.Join(names, "|") != "iPhone 15|iPhone 15 Pro|iPhone SE" {
		t.Fatalf("names = %v", names)
	}

	pro := products[1]
	if pro["storageCapacity"] != "256GB" || pro["manufacturer"] != "Apple" || pro["colorCode"] != "#000000" {
		t.Errorf("representative variant fields = %v", pro)
	}
	if imgs, _ := pro["imageUrls"].([]any); len(imgs) != 2 {
		t.Errorf("imageUrls = %v", pro["imageUrls"])
	}
	badges, _ := pro["campaigns"].([]any)
	if len(badges) != 1 || badges[0].(map[string]any)["campaignCode"] != "NEW_ARRIVAL" {
		t.Errorf("campaigns = %v, want only NEW_ARRIVAL (expired sale dropped)", badges)
	}
	if se, _ := products[2]["campaigns"].([]any); len(se) != 0 {
		t.Errorf("inactive/future campaigns leaked: %v", se)
	}

	p := paginationOf(m)
	if p["page"] != float64(0) || p["perPage"] != float64(20) || p["total"] != float64(3) || p["pages"] != float64(1) {
		t.Errorf("pagination = %v", p)
	}
}

func TestCategoryDetailKeywordAndPaging(t *testing.T) {
	a := newTestApp(t, nil)

	_, m := a.get(t, "/api/v1/products/categories/iphone?keyword=Pro")
	products := productsOf(t, m)
	if len(products) != 1 || products[0]["productName"] != "iPhone 15 Pro" {
		t.Fatalf("keyword results = %v", products)
	}

	_, m = a.get(t, "/api/v1/products/categories/iphone?size=1&page=1&sort=price&order=DESC")
	products = productsOf(t, m)
	if len(products) != 1 || products[0]["productName"] != "iPhone 15" {
		t.Fatalf("page 1 by price desc = %v", products)
	}
	p := paginationOf(m)
	if p["page"] != float64(1) || p["perPage"] != float64(1) || p["total"] != float64(3) || p["pages"] != float64(3) {
		t.Errorf("pagination = %v", p)
	}

	_, m = a.get(t, "/api/v1/products/categories/iphone?keyword=zzz")
	if len(productsOf(t, m)) != 0 || paginationOf(m)["pages"] != float64(0) {
		t.Errorf("empty result = %v", m["data"])
	}
}

func TestCategoryDetailWithoutVariants(t *testing.T) {
	a := newTestApp(t, nil)

	_, m := a.get(t, "/api/v1/products/categories/accessories")
	products := productsOf(t, m)
	if len(products) == 0 {
		t.Fatal("no accessories")
	}
	for _, p := range products {
		if v, present := p["manufacturer"]; !present || v != nil {
			t.Errorf("manufacturer should be null, got %v (present=%v)", v, present)
		}
		if imgs, ok := p["imageUrls"].([]any); !ok || len(imgs) != 0 {
			t.Errorf("imageUrls should be [], got %v", p["imageUrls"])
		}
	}
}

func TestCategoryDetailBadQuery(t *testing.T) {
	a := newTestApp(t, nil)

	resp, m := a.get(t, "/api/v1/products/categories/iphone?page=abc")
	assertErrorEnvelope(t, resp, m, http.StatusBadRequest, "TYPE_MISMATCH")
	if m["message"] != `"page" value "abc" is invalid` {
		t.Errorf("message = %v", m["message"])
	}

	resp, m = a.get(t, "/api/v1/products/categories/iphone?size=2&page=4611686018427387904")
	assertErrorEnvelope(t, resp, m, http.StatusBadRequest, "TYPE_MISMATCH")
	if _, present := m["data"]; present {
		t.Errorf("huge page returned data: %v", m["data"])
	}

	cases := map[string]string{
		"?size=0":   "size",
		"?size=101": "size",
		"?page=-1":  "page",
		"?keyword=" + strings.Repeat("k", 101): "keyword",
	}
	for q, field := range cases {
		resp, m := a.get(t, "/api/v1/products/categories/iphone"+q)
		assertErrorEnvelope(t, resp, m, http.StatusBadRequest, "VALIDATION_ERROR")
		fe, _ := m["field_errors"].(map[string]any)
		if fe[field] == nil {
			t.Errorf("%s: field_errors = %v", q, m["field_errors"])
		}
	}
}

func TestCategoryNotFound(t *testing.T) {
	a := newTestApp(t, nil)

	for _, path := range []string{
		"/api/v1/products/categories/nope",
		"/api/v1/products/categories/feature-phone",
		"/api/v1/products/categories/nope/recommendations",
		"/api/v1/products/categories/feature-phone/recommendations",
	} {
		resp, m := a.get(t, path)
		assertErrorEnvelope(t, resp, m, http.StatusNotFound, "CATEGORY_NOT_FOUND")
		if _, present := m["data"]; present {
			t.Errorf("%s: partial data returned", path)
		}
	}
}

func TestRecommendations(t *testing.T) {
	a := newTestApp(t, nil)

	resp, m := a.get(t, "/api/v1/products/categories/iphone/recommendations")
	if resp.StatusCode != http.StatusOK || m["success"] != true {
		t.Fatalf("status = %d; body=%v", resp.StatusCode, m)
	}
	data := m["data"].(map[string]any)
	recs, ok := data["recommendations"].([]any)
	if !ok || len(recs) != 0 {
		t.Errorf("recommendations = %v", data["recommendations"])
	}
}
