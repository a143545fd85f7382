package voyage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/austinfhunter/voyageai"

	"yashubustudio/contextanalyzer/analyzer"
)

const DefaultModel = "voyage-3.5-lite"

// maxBatch is the largest input list the embeddings endpoint accepts.
const maxBatch = 128

type EmbeddingType string

const (
	EmbeddingTypeDocument EmbeddingType = "document"
	EmbeddingTypeQuery    EmbeddingType = "query"
	EmbeddingTypeDefault  EmbeddingType = ""
)

// embedAPI is the part of *voyageai.VoyageClient the embedder uses.
type embedAPI interface {
	Embed(texts []string, model string, opts *voyageai.EmbeddingRequestOpts) (*voyageai.EmbeddingResponse, error)
}

// Embedder generates sentence embeddings with the Voyage AI API.
type Embedder struct {
	client        embedAPI
	model         string
	dimensions    int
	embeddingType EmbeddingType
}

var _ analyzer.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithDimensions requests a specific output dimension. Zero keeps the model default.
func WithDimensions(n int) Option {
	return func(e *Embedder) { e.dimensions = n }
}

// WithEmbeddingType sets the input type hint sent with every request.
func WithEmbeddingType(t EmbeddingType) Option {
	return func(e *Embedder) { e.embeddingType = t }
}

// New creates an embedder for apiKey.
func New(apiKey string, opts ...Option) (*Embedder, error) {
	if apiKey == "" {
		return nil, errors.New("voyage: API key is required")
	}
	client := voyageai.NewClient(&voyageai.VoyageClientOpts{Key: apiKey})
	return newWithClient(client, opts...), nil
}

func newWithClient(client embedAPI, opts ...Option) *Embedder {
	e := &Embedder{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ModelID identifies the embedding space for cache keys: the model plus any
// output dimension or input type override.
func (e *Embedder) ModelID() string {
	id := "voyage/" + e.model
	if e.dimensions > 0 {
		id += ":" + strconv.Itoa(e.dimensions)
	}
	if e.embeddingType != EmbeddingTypeDefault {
		id += "#" + string(e.embeddingType)
	}
	return id
}

// Close is a no-op; the HTTP client holds no resources.
func (e *Embedder) Close() error { return nil }

// EmbedText generates an embedding for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedTexts generates embeddings for texts, splitting large inputs into
// several requests.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + maxBatch
		if end > len(texts) {
			end = len(texts)
		}
		resp, err := e.client.Embed(texts[start:end], e.model, e.requestOpts())
		if err != nil {
			return nil, fmt.Errorf("could not get embeddings: %w", err)
		}
		if resp == nil || len(resp.Data) != end-start {
			return nil, fmt.Errorf("voyage: expected %d embeddings", end-start)
		}
		for _, obj := range resp.Data {
			out = append(out, obj.Embedding)
		}
	}
	return out, nil
}

func (e *Embedder) requestOpts() *voyageai.EmbeddingRequestOpts {
	opts := &voyageai.EmbeddingRequestOpts{InputType: parseEmbeddingType(e.embeddingType)}
	if e.dimensions > 0 {
		dims := e.dimensions
		opts.OutputDimension = &dims
	}
	return opts
}

func parseEmbeddingType(embeddingType EmbeddingType) *string {
	if embeddingType != EmbeddingTypeDefault {
		value := string(embeddingType)
		return &value
	}
	return nil
}
