package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"geolookup/internal/api/dto"
	"geolookup/internal/app/version"
	"geolookup/internal/lookup"
	"geolookup/internal/metrics"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		log.Error("write json response", "error", err)
	}
}

func writeError(w http.ResponseWriter, detail string, status int) {
	writeJSON(w, status, dto.ErrorResponse{Status: status, Detail: detail})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log.Debug("request served",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, "Route not found", http.StatusNotFound)
}

// NewRouter builds the public handler. /lookup is the only route; everything
// else gets a JSON 404.
func NewRouter(resolver *lookup.Resolver) http.Handler {
	router := http.NewServeMux()
	router.Handle("/lookup", &lookupHandler{resolver: resolver})
	router.HandleFunc("/", routeNotFound)

	return logRequests(enableCORS(router))
}

// OpenRoutes serves the lookup API on port until ctx is cancelled, then shuts
// the listener down within shutdownTimeout.
func OpenRoutes(ctx context.Context, port int, resolver *lookup.Resolver, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(resolver),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("GeoIP API running on http://localhost:%d", port)
	return serveUntilDone(ctx, server, shutdownTimeout)
}

func getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

// NewOpsRouter serves the operational endpoints that stay off the public API.
func NewOpsRouter() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /version", getVersion)
	return mux
}

// ServeMetrics exposes Prometheus metrics and build info on a listener of
// its own so the API route table stays untouched.
func ServeMetrics(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	mux := NewOpsRouter()

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Metrics listener started", "addr", addr)
	return serveUntilDone(ctx, server, shutdownTimeout)
}

func serveUntilDone(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server %s failed: %w", server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server %s shutdown: %w", server.Addr, err)
	}
	return nil
}
