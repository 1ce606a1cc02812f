package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"geolookup/internal/database"
	"geolookup/internal/database/databasetest"
	"geolookup/internal/domain"
	"geolookup/internal/lookup"

	"github.com/goccy/go-json"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	path, db := databasetest.NewSQLiteFile(t)
	databasetest.Insert(t, db,
		&domain.CityLocation{
			GeonameID:      5375480,
			LocaleCode:     "en",
			ContinentCode:  databasetest.Ptr("NA"),
			CountryISOCode: databasetest.Ptr("US"),
			CountryName:    databasetest.Ptr("United States"),
			CityName:       databasetest.Ptr("Mountain View"),
		},
		&domain.CountryLocation{
			GeonameID:      3017382,
			LocaleCode:     "en",
			CountryISOCode: databasetest.Ptr("FR"),
			CountryName:    databasetest.Ptr("France"),
		},
		databasetest.CityBlock(t, "198.51.100.0/24", 5375480),
		databasetest.CountryBlock(t, "203.0.113.0/24", 3017382),
		databasetest.ASNBlock(t, "203.0.113.0/24", databasetest.Ptr(int64(64500)), databasetest.Ptr("Example Transit")),
		databasetest.ASNBlock(t, "192.0.2.0/24", databasetest.Ptr(int64(64501)), nil),
	)

	resolver := lookup.NewResolver(database.NewStore(database.WithSQLitePath(path)), "en")
	return NewRouter(resolver)
}

func serve(t *testing.T, handler http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, body map[string]any, status int, detail string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if body["status"] != float64(status) || body["detail"] != detail {
		t.Fatalf("body = %v, want status %d detail %q", body, status, detail)
	}
}

func TestLookup_ErrorResponses(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		target string
		status int
		detail string
	}{
		{"missing parameter", "/lookup", http.StatusBadRequest, "Missing ip parameter"},
		{"empty parameter", "/lookup?ip=", http.StatusBadRequest, "Missing ip parameter"},
		{"invalid address", "/lookup?ip=not-an-ip", http.StatusBadRequest, "Invalid IP address"},
		{"unrepresentable ipv6", "/lookup?ip=fe80::1", http.StatusBadRequest, "Invalid IP address"},
		{"no ranges at all", "/lookup?ip=10.0.0.1", http.StatusNotFound, "IP not found in ranges"},
		{"asn only", "/lookup?ip=192.0.2.5", http.StatusNotFound, "IP not found in ranges"},
		{"unknown route", "/nope", http.StatusNotFound, "Route not found"},
		{"root", "/", http.StatusNotFound, "Route not found"},
		{"lookup subpath", "/lookup/1.1.1.1", http.StatusNotFound, "Route not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := serve(t, router, http.MethodGet, tc.target)
			assertError(t, rec, body, tc.status, tc.detail)
		})
	}
}

func TestLookup_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	rec, body := serve(t, router, http.MethodPost, "/lookup?ip=1.1.1.1")
	assertError(t, rec, body, http.StatusMethodNotAllowed, "Method not allowed")

	pre := httptest.NewRecorder()
	router.ServeHTTP(pre, httptest.NewRequest(http.MethodOptions, "/lookup", nil))
	if pre.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", pre.Code)
	}
}

func TestLookup_CityHit(t *testing.T) {
	router := newTestRouter(t)

	rec, body := serve(t, router, http.MethodGet, "/lookup?ip=198.51.100.20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}

	if body["status"] != float64(200) || body["ip"] != "198.51.100.20" || body["ip_version"] != float64(4) {
		t.Fatalf("unexpected envelope %v", body)
	}
	if body["asn"] != nil {
		t.Fatalf("asn = %v, want null", body["asn"])
	}
	if body["message"] == "" || body["message"] == nil {
		t.Fatal("missing attribution message")
	}

	location := body["location"].(map[string]any)
	if location["source"] != "city" {
		t.Fatalf("source = %v", location["source"])
	}
	geo := location["geo"].(map[string]any)
	if geo["city"].(map[string]any)["name"] != "Mountain View" {
		t.Fatalf("city = %v", geo["city"])
	}
}

func TestLookup_CountryAndASN(t *testing.T) {
	router := newTestRouter(t)

	rec, body := serve(t, router, http.MethodGet, "/lookup?ip=203.0.113.44")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	location := body["location"].(map[string]any)
	if location["source"] != "country" {
		t.Fatalf("source = %v", location["source"])
	}
	geo := location["geo"].(map[string]any)
	if name := geo["city"].(map[string]any)["name"]; name != nil {
		t.Fatalf("geo.city.name = %v, want null", name)
	}
	if geo["country"].(map[string]any)["name"] != "France" {
		t.Fatalf("country = %v", geo["country"])
	}

	asn, ok := body["asn"].(map[string]any)
	if !ok {
		t.Fatalf("asn = %v, want object", body["asn"])
	}
	if asn["number"] != float64(64500) || asn["organization"] != "Example Transit" {
		t.Fatalf("asn = %v", asn)
	}
}

func TestLookup_RequestIDPassthrough(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestLookup_StoreUnavailable(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := database.NewStore(database.WithSQLitePath(filepath.Join(t.TempDir(), "missing.db")))
		router := NewRouter(lookup.NewResolver(store, "en"))

		rec, body := serve(t, router, http.MethodGet, "/lookup?ip=1.1.1.1")
		assertError(t, rec, body, http.StatusInternalServerError, "Database file not found")
	})

	t.Run("bad input wins over missing file", func(t *testing.T) {
		store := database.NewStore(database.WithSQLitePath(filepath.Join(t.TempDir(), "missing.db")))
		router := NewRouter(lookup.NewResolver(store, "en"))

		rec, body := serve(t, router, http.MethodGet, "/lookup?ip=bogus")
		assertError(t, rec, body, http.StatusBadRequest, "Invalid IP address")
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.db")
		garbage := make([]byte, 4096)
		for i := range garbage {
			garbage[i] = 0xAB
		}
		if err := os.WriteFile(path, garbage, 0o600); err != nil {
			t.Fatalf("write corrupt file: %v", err)
		}
		router := NewRouter(lookup.NewResolver(database.NewStore(database.WithSQLitePath(path)), "en"))

		rec, body := serve(t, router, http.MethodGet, "/lookup?ip=1.1.1.1")
		assertError(t, rec, body, http.StatusInternalServerError, "Database open failed")
	})
}

func TestClassifyLookupError(t *testing.T) {
	status, detail, _ := classifyLookupError(fmt.Errorf("wrapped: %w", errors.New("disk on fire")))
	if status != http.StatusInternalServerError || detail != "Internal server error" {
		t.Fatalf("got %d %q", status, detail)
	}

	status, detail, _ = classifyLookupError(fmt.Errorf("lookup: x: %w", lookup.ErrNotFound))
	if status != http.StatusNotFound || detail != "IP not found in ranges" {
		t.Fatalf("got %d %q", status, detail)
	}
}

func TestOpsRouter(t *testing.T) {
	router := NewOpsRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("version status = %d", rec.Code)
	}
	var info map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info["buildVersion"] == "" {
		t.Fatalf("version body = %v", info)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("lookup on ops listener status = %d, want 404", rec.Code)
	}
}
