package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

func newTestServer(t *testing.T, status int, handler func(req embeddingRequest) any) (*httptest.Server, *embeddingRequest) {
	t.Helper()
	var seen embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(handler(seen))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestEmbedTextsOrdersByIndex(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, func(req embeddingRequest) any {
		return map[string]any{
			"object": "list",
			"model":  req.Model,
			"data": []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float64{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float64{1, 0}},
			},
			"usage": map[string]any{"prompt_tokens": 2, "total_tokens": 2},
		}
	})
	e, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1/", Model: "embed-small", Dimensions: 2})
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.EmbedTexts(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedTexts: %v", err)
	}
	if !reflect.DeepEqual(out, [][]float32{{1, 0}, {0, 1}}) {
		t.Errorf("out = %v", out)
	}
	if !reflect.DeepEqual(seen.Input, []string{"first", "second"}) || seen.Model != "embed-small" || seen.Dimensions != 2 {
		t.Errorf("request = %+v", *seen)
	}
	if want := "openai/embed-small:2@" + srv.URL + "/v1"; e.ModelID() != want {
		t.Errorf("ModelID = %q, want %q", e.ModelID(), want)
	}
}

func TestEmbedTextsServerError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, func(embeddingRequest) any {
		return map[string]any{"error": map[string]any{"message": "boom", "type": "server_error"}}
	})
	e, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.EmbedText(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbedTextsCountMismatch(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, func(embeddingRequest) any {
		return map[string]any{
			"object": "list",
			"model":  "m",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float64{1}}},
			"usage":  map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		}
	})
	e, _ := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1/"})
	if _, err := e.EmbedTexts(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without key or base URL")
	}
	e, err := New(Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if e.model != DefaultModel {
		t.Errorf("model = %q", e.model)
	}
	if out, err := e.EmbedTexts(context.Background(), nil); err != nil || len(out) != 0 {
		t.Errorf("empty input: %v %v", out, err)
	}
}

func TestModelIDSeparatesEmbeddingSpaces(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"public api", Config{APIKey: "k"}, "openai/" + DefaultModel},
		{"dimensions", Config{APIKey: "k", Dimensions: 256}, "openai/" + DefaultModel + ":256"},
		{"compatible server", Config{BaseURL: "http://localhost:8080/v1/", Model: "bge-m3"}, "openai/bge-m3@http://localhost:8080/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got := e.ModelID(); got != tt.want {
				t.Errorf("ModelID = %q, want %q", got, tt.want)
			}
		})
	}
}
