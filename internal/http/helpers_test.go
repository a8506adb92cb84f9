package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/testutil"
	"storefront/internal/token"
)

const testSecret = "a2V5LWtleS1rZXkta2V5LWtleS1rZXkta2V5LWtleSE="

type testApp struct {
	app    *fiber.App
	db     *sqlx.DB
	signer *token.Signer
}

func testConfig() *config.Config {
	return &config.Config{
		DBDriver:        "sqlite",
		JWTSecret:       testSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 168 * time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
		LoginRateMax:    100,
		LoginRateWindow: time.Minute,
	}
}

// newTestApp serves the real routes over a seeded temp database.
func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	db := testutil.SeededDB(t)
	signer, err := token.NewSigner(cfg.JWTSecret)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	app := handlers.NewApp(cfg, handlers.NewDeps(db, cfg, signer), nil)
	return &testApp{app: app, db: db, signer: signer}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, body := a.do(t, httptest.NewRequest(http.MethodGet, path, nil))
	return resp, decode(t, body)
}

func (a *testApp) login(t *testing.T, payload string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, body := a.do(t, req)
	return resp, decode(t, body)
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("response is not a JSON object: %v; body=%s", err, body)
	}
	return m
}

// assertErrorEnvelope checks the uniform failure shape.
func assertErrorEnvelope(t *testing.T, resp *http.Response, m map[string]any, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d; body=%v", resp.StatusCode, status, m)
	}
	if m["success"] != false {
		t.Errorf("success = %v, want false", m["success"])
	}
	if m["error_code"] != code {
		t.Errorf("error_code = %v, want %s", m["error_code"], code)
	}
	if s, _ := m["message"].(string); s == "" {
		t.Errorf("empty message")
	}
	if s, _ := m["requestId"].(string); s == "" {
		t.Errorf("missing requestId")
	}
	if _, err := time.Parse(time.RFC3339Nano, m["timestamp"].(string)); err != nil {
		t.Errorf("timestamp %v: %v", m["timestamp"], err)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
	Raw    string         `json:"-"`
}

type lockedWriter struct {
	mu sync.Mutex
	w  bytes.Buffer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs redirects the application log for the duration of fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	lw := &lockedWriter{}
	applog.SetOutput(lw)
	defer applog.Setup(io.Discard, "info")

	fn()

	lw.mu.Lock()
	defer lw.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(lw.w.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			e.Raw = line
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}

func mustGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
