package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/samber/mo"

	"yashubustudio/contextanalyzer/emb"
)

// Embedder exposes the minimal surface required by the service layer.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
	ModelID() string
}

// OrtEmbedder is a thin wrapper over emb.Encoder.
type OrtEmbedder struct {
	enc *emb.Encoder
	cfg EmbedderConfig
	mu  sync.RWMutex
}

// NewOrtEmbedder loads the model. It is expensive; build one per process.
func NewOrtEmbedder(cfg EmbedderConfig) (*OrtEmbedder, error) {
	cfg.ModelID = OrtModelID(cfg)
	encoder := &emb.Encoder{}
	if err := encoder.Init(emb.Config{
		OrtDLL:        cfg.OrtDLL,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
	}); err != nil {
		return nil, err
	}
	return &OrtEmbedder{enc: encoder, cfg: cfg}, nil
}

// OrtModelID returns cfg.ModelID, or "<dir>/<file>" of the model path when unset.
func OrtModelID(cfg EmbedderConfig) string {
	if cfg.ModelID != "" || cfg.ModelPath == "" {
		return cfg.ModelID
	}
	return filepath.Base(filepath.Dir(cfg.ModelPath)) + "/" + filepath.Base(cfg.ModelPath)
}

// Close releases ORT resources.
func (o *OrtEmbedder) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.enc != nil {
		o.enc.Close()
		o.enc = nil
	}
	return nil
}

// ModelID returns the identifier used for cache keys.
func (o *OrtEmbedder) ModelID() string {
	return o.cfg.ModelID
}

// EmbedText embeds a single string.
func (o *OrtEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if o == nil {
		return nil, errors.New("embedder is not initialized")
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.enc == nil {
		return nil, errors.New("embedder is closed")
	}
	return o.enc.Encode(NormalizeText(text))
}

// EmbedTexts embeds a slice of strings sequentially.
func (o *OrtEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := o.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// LazyEmbedder defers construction of an expensive embedder until first
// use and builds it at most once. A failed build is remembered and
// returned on every later call.
type LazyEmbedder struct {
	modelID string
	build   func() (Embedder, error)

	once  sync.Once
	inner Embedder
	err   error
}

// NewLazyEmbedder wraps build. modelID is reported before the model loads.
func NewLazyEmbedder(modelID string, build func() (Embedder, error)) *LazyEmbedder {
	return &LazyEmbedder{modelID: modelID, build: build}
}

func (l *LazyEmbedder) get() (Embedder, error) {
	l.once.Do(func() {
		l.inner, l.err = l.build()
		if l.err == nil && l.inner == nil {
			l.err = errors.New("embedder constructor returned nil")
		}
	})
	return l.inner, l.err
}

// EmbedText implements Embedder.
func (l *LazyEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e, err := l.get()
	if err != nil {
		return nil, fmt.Errorf("load embedder: %w", err)
	}
	return e.EmbedText(ctx, text)
}

// EmbedTexts implements Embedder.
func (l *LazyEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e, err := l.get()
	if err != nil {
		return nil, fmt.Errorf("load embedder: %w", err)
	}
	return e.EmbedTexts(ctx, texts)
}

// ModelID implements Embedder.
func (l *LazyEmbedder) ModelID() string {
	return l.modelID
}

// Close closes the inner embedder if it was ever built.
func (l *LazyEmbedder) Close() error {
	l.once.Do(func() { l.err = errors.New("embedder closed before use") })
	if l.inner == nil {
		return nil
	}
	return l.inner.Close()
}

// embedSentences is the provider boundary: empty input is None, a provider
// error or panic comes back as an error, and the vector count is checked.
func embedSentences(ctx context.Context, e Embedder, sentences []string) (vecs mo.Option[[][]float32], err error) {
	if len(sentences) == 0 {
		return mo.None[[][]float32](), nil
	}
	defer func() {
		if r := recover(); r != nil {
			vecs = mo.None[[][]float32]()
			err = fmt.Errorf("embedder panic: %v", r)
		}
	}()
	out, err := e.EmbedTexts(ctx, sentences)
	if err != nil {
		return mo.None[[][]float32](), fmt.Errorf("embed texts: %w", err)
	}
	if len(out) != len(sentences) {
		return mo.None[[][]float32](), fmt.Errorf("embedder returned %d vectors for %d sentences", len(out), len(sentences))
	}
	return mo.Some(out), nil
}
