package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveLookup(t *testing.T) {
	before := testutil.ToFloat64(lookups.WithLabelValues(OutcomeNotFound))

	ObserveLookup(OutcomeNotFound, 3*time.Millisecond)
	ObserveLookup(OutcomeNotFound, time.Millisecond)

	if got := testutil.ToFloat64(lookups.WithLabelValues(OutcomeNotFound)); got != before+2 {
		t.Fatalf("lookups_total{outcome=not_found} = %v, want %v", got, before+2)
	}
}

func TestObserveASNMatch(t *testing.T) {
	before := testutil.ToFloat64(asnHits)
	ObserveASNMatch()
	if got := testutil.ToFloat64(asnHits); got != before+1 {
		t.Fatalf("asn_matches_total = %v, want %v", got, before+1)
	}
}

func TestHandlerExposesBuildInfo(t *testing.T) {
	SetBuildInfo("v1.2.3", "2026-01-01")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `geolookup_build_info{built_at="2026-01-01",version="v1.2.3"} 1`) {
		t.Fatalf("build info missing from exposition:\n%s", body)
	}
}
