package openai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"yashubustudio/contextanalyzer/analyzer"
)

const DefaultModel = "text-embedding-3-small"

// Embedder calls an OpenAI compatible /embeddings endpoint.
type Embedder struct {
	client     openai.Client
	model      string
	dimensions int
	baseURL    string
}

var _ analyzer.Embedder = (*Embedder)(nil)

// Config configures the embedder. BaseURL may point at any compatible
// server; it defaults to the public API.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	MaxRetries int
}

// New creates an Embedder.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("openai: API key is required")
	}
	opts := []option.RequestOption{option.WithMaxRetries(cfg.MaxRetries)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: cfg.Dimensions,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// ModelID identifies the embedding space for cache keys. A custom base URL
// is included since compatible servers may serve different weights under
// the same model name.
func (e *Embedder) ModelID() string {
	id := "openai/" + e.model
	if e.dimensions > 0 {
		id += ":" + strconv.Itoa(e.dimensions)
	}
	if e.baseURL != "" {
		id += "@" + e.baseURL
	}
	return id
}

// Close is a no-op.
func (e *Embedder) Close() error { return nil }

// EmbedText embeds one text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedTexts embeds texts in a single request. Results are ordered by the
// index the server reports, not by arrival.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	params := openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(e.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		params.Dimensions = openai.Int(int64(e.dimensions))
	}
	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float32, len(data))
	for i, d := range data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}
