package voyage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/austinfhunter/voyageai"

	"yashubustudio/contextanalyzer/analyzer"
)

type fakeClient struct {
	calls     [][]string
	lastModel string
	lastOpts  *voyageai.EmbeddingRequestOpts
	err       error
	short     bool
}

func (f *fakeClient) Embed(texts []string, model string, opts *voyageai.EmbeddingRequestOpts) (*voyageai.EmbeddingResponse, error) {
	f.calls = append(f.calls, texts)
	f.lastModel = model
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	resp := &voyageai.EmbeddingResponse{}
	n := len(texts)
	if f.short {
		n--
	}
	dim := 1
	if opts != nil && opts.OutputDimension != nil {
		dim = *opts.OutputDimension
	}
	for i := 0; i < n; i++ {
		vec := make([]float32, dim)
		vec[0] = float32(len(texts[i]))
		resp.Data = append(resp.Data, voyageai.EmbeddingObject{Embedding: vec})
	}
	return resp, nil
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestEmbedTextsBatches(t *testing.T) {
	fake := &fakeClient{}
	e := newWithClient(fake, WithModel("voyage-3"), WithDimensions(512))
	texts := make([]string, maxBatch+5)
	for i := range texts {
		texts[i] = fmt.Sprintf("sentence %d", i)
	}
	out, err := e.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(texts) {
		t.Fatalf("got %d vectors", len(out))
	}
	if len(fake.calls) != 2 || len(fake.calls[0]) != maxBatch || len(fake.calls[1]) != 5 {
		t.Errorf("unexpected batching: %d calls", len(fake.calls))
	}
	if fake.lastModel != "voyage-3" {
		t.Errorf("model = %q", fake.lastModel)
	}
	if fake.lastOpts.OutputDimension == nil || *fake.lastOpts.OutputDimension != 512 {
		t.Error("output dimension not sent")
	}
	if fake.lastOpts.InputType != nil {
		t.Error("default embedding type should send no input type")
	}
	if e.ModelID() != "voyage/voyage-3:512" {
		t.Errorf("ModelID = %q", e.ModelID())
	}
}

func TestEmbedTextErrors(t *testing.T) {
	e := newWithClient(&fakeClient{err: errors.New("rate limited")})
	if _, err := e.EmbedText(context.Background(), "x"); err == nil {
		t.Error("expected API error")
	}
	e = newWithClient(&fakeClient{short: true})
	if _, err := e.EmbedTexts(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected count mismatch error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newWithClient(&fakeClient{}).EmbedTexts(ctx, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseEmbeddingType(t *testing.T) {
	if parseEmbeddingType(EmbeddingTypeDefault) != nil {
		t.Error("default type should be nil")
	}
	if got := parseEmbeddingType(EmbeddingTypeQuery); got == nil || *got != "query" {
		t.Errorf("query type = %v", got)
	}
}

func TestModelIDSeparatesEmbeddingSpaces(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default", nil, "voyage/" + DefaultModel},
		{"dimensions", []Option{WithDimensions(256)}, "voyage/" + DefaultModel + ":256"},
		{"input type", []Option{WithEmbeddingType(EmbeddingTypeQuery)}, "voyage/" + DefaultModel + "#query"},
		{"both", []Option{WithModel("voyage-3"), WithDimensions(1024), WithEmbeddingType(EmbeddingTypeDocument)}, "voyage/voyage-3:1024#document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newWithClient(&fakeClient{}, tt.opts...).ModelID(); got != tt.want {
				t.Errorf("ModelID = %q, want %q", got, tt.want)
			}
		})
	}
	big := newWithClient(&fakeClient{}, WithDimensions(1024))
	small := newWithClient(&fakeClient{}, WithDimensions(256))
	if big.ModelID() == small.ModelID() {
		t.Error("different output dimensions must not share cache keys")
	}
}

func TestSharedCacheKeepsDimensionsApart(t *testing.T) {
	cache := analyzer.NewMemoryCache()
	big := analyzer.NewCachedEmbedder(newWithClient(&fakeClient{}, WithDimensions(1024)), nil, cache)
	small := analyzer.NewCachedEmbedder(newWithClient(&fakeClient{}, WithDimensions(256)), nil, cache)

	if _, err := big.EmbedTexts(context.Background(), []string{"What is a stack"}); err != nil {
		t.Fatal(err)
	}
	out, err := small.EmbedTexts(context.Background(), []string{"What is a stack"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out[0]) != 256 {
		t.Errorf("got a %d-dim vector after switching to 256 dimensions", len(out[0]))
	}
	if cache.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", cache.Len())
	}
}
