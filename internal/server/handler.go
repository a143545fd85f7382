package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// maxBodyBytes caps the /analyze request body.
const maxBodyBytes = 1 << 20

// AnalyzeRequest is the /analyze request body.
type AnalyzeRequest struct {
	UserPrompt     *string `json:"user_prompt"`
	AIResponse     *string `json:"ai_response"`
	OutputLanguage string  `json:"output_language"`
}

type handler struct {
	analyzer Analyzer
	logger   *log.Logger
}

func newHandler(a Analyzer, logger *log.Logger) *handler {
	return &handler{analyzer: a, logger: logger}
}

// Analyze handles POST /analyze
func (h *handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserPrompt == nil {
		writeError(w, http.StatusUnprocessableEntity, "user_prompt is required")
		return
	}
	if req.AIResponse == nil {
		writeError(w, http.StatusUnprocessableEntity, "ai_response is required")
		return
	}
	if req.OutputLanguage == "" {
		req.OutputLanguage = "auto"
	}

	result := h.analyzer.Analyze(r.Context(), *req.UserPrompt, *req.AIResponse, req.OutputLanguage)
	if err := writeJSON(w, http.StatusOK, result); err != nil && h.logger != nil {
		h.logger.Printf("write analyze response: %v request_id=%s", err, RequestID(r.Context()))
	}
}

// Root handles GET /
func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Context Analyzer API",
	})
}

// writeJSON encodes data before writing the header so an unencodable value
// becomes a 500 instead of a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	body, err := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
		return fmt.Errorf("encode response: %w", err)
	}
	w.WriteHeader(status)
	_, err = w.Write(append(body, '\n'))
	return err
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
