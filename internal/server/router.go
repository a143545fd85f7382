package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"yashubustudio/contextanalyzer/analyzer"
	"yashubustudio/contextanalyzer/internal/metrics"
)

// Analyzer is the analysis entry point served over HTTP.
type Analyzer interface {
	Analyze(ctx context.Context, userPrompt, aiResponse, outputLanguage string) analyzer.AnalysisResult
}

// Container holds all dependencies for the router
type Container struct {
	Analyzer Analyzer
	Logger   *log.Logger
	// Timeout bounds a single /analyze call. Zero disables the limit.
	Timeout time.Duration
	// AllowedOrigins is sent as Access-Control-Allow-Origin; empty means "*".
	AllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	h := newHandler(c.Analyzer, c.Logger)

	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(loggingMiddleware(c.Logger))
	r.Use(recoveryMiddleware(c.Logger))

	var analyze http.Handler = http.HandlerFunc(h.Analyze)
	if c.Timeout > 0 {
		analyze = jsonContentType(http.TimeoutHandler(analyze, c.Timeout, `{"error":"analysis timed out"}`))
	}
	r.Handle("/analyze", analyze).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}

// jsonContentType presets the header so the TimeoutHandler 503 body is
// labelled as JSON too.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
