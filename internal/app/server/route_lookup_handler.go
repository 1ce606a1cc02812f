package server

import (
	"errors"
	"net/http"
	"time"

	"geolookup/internal/api/dto"
	"geolookup/internal/database"
	"geolookup/internal/ipkey"
	"geolookup/internal/lookup"
	"geolookup/internal/metrics"

	"github.com/charmbracelet/log"
)

type lookupHandler struct {
	resolver *lookup.Resolver
}

func (h *lookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ip := r.URL.Query().Get("ip")
	if ip == "" {
		metrics.ObserveLookup(metrics.OutcomeBadInput, 0)
		writeError(w, "Missing ip parameter", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := h.resolver.Resolve(r.Context(), ip)
	if err != nil {
		status, detail, outcome := classifyLookupError(err)
		metrics.ObserveLookup(outcome, time.Since(start))
		if status >= http.StatusInternalServerError {
			log.Error("lookup failed", "ip", ip, "error", err)
		} else {
			log.Debug("lookup rejected", "ip", ip, "status", status, "error", err)
		}
		writeError(w, detail, status)
		return
	}

	outcome := metrics.OutcomeCity
	if res.Source == lookup.SourceCountry {
		outcome = metrics.OutcomeCountry
	}
	metrics.ObserveLookup(outcome, time.Since(start))
	if res.ASN != nil {
		metrics.ObserveASNMatch()
	}

	writeJSON(w, http.StatusOK, dto.NewLookupResponse(res))
}

func classifyLookupError(err error) (status int, detail string, outcome string) {
	switch {
	case errors.Is(err, ipkey.ErrInvalidAddress):
		return http.StatusBadRequest, "Invalid IP address", metrics.OutcomeBadInput
	case errors.Is(err, database.ErrStoreMissing):
		return http.StatusInternalServerError, "Database file not found", metrics.OutcomeStoreUnavailable
	case errors.Is(err, database.ErrStoreOpen):
		return http.StatusInternalServerError, "Database open failed", metrics.OutcomeStoreUnavailable
	case errors.Is(err, lookup.ErrNotFound):
		return http.StatusNotFound, "IP not found in ranges", metrics.OutcomeNotFound
	default:
		return http.StatusInternalServerError, "Internal server error", metrics.OutcomeError
	}
}
