package embedding

import (
	"context"
	"fmt"
	"log"
	"time"

	"yashubustudio/contextanalyzer/adapters/openai"
	"yashubustudio/contextanalyzer/adapters/voyage"
	"yashubustudio/contextanalyzer/analyzer"
	"yashubustudio/contextanalyzer/internal/rediscache"
)

const redisPingTimeout = 2 * time.Second

// Stack is the configured embedder plus the resources it holds.
type Stack struct {
	Embedder analyzer.Embedder
	redis    *rediscache.VectorCache
}

// Close releases the embedder and any cache connections.
func (s *Stack) Close() error {
	err := s.Embedder.Close()
	if s.redis != nil {
		if cerr := s.redis.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Build selects the provider named in cfg and layers the vector caches in
// front of it: memory, then disk when a cache dir is set, then Redis when
// an address is set. An unreachable Redis is logged and skipped. The local
// ONNX model is not loaded until the first embedding request.
func Build(ctx context.Context, cfg analyzer.Config, logger *log.Logger) (*Stack, error) {
	base, err := newProvider(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	caches := []analyzer.VectorCache{analyzer.NewMemoryCache()}
	if cfg.Embedder.CacheDir != "" {
		disk, err := analyzer.NewDiskCache(cfg.Embedder.CacheDir)
		if err != nil {
			return nil, err
		}
		caches = append(caches, disk)
	}

	stack := &Stack{}
	if cfg.Redis.Addr != "" {
		rc := rediscache.New(rediscache.NewClient(cfg.Redis), time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			logf(logger, "redis vector cache disabled: %v", err)
			_ = rc.Close()
		} else {
			logf(logger, "redis vector cache enabled at %s", cfg.Redis.Addr)
			caches = append(caches, rc)
			stack.redis = rc
		}
	}

	stack.Embedder = analyzer.NewCachedEmbedder(base, logger, caches...)
	logf(logger, "embedder %s ready (%s, %d cache layers)", stack.Embedder.ModelID(), cfg.Embedder.Provider, len(caches))
	return stack, nil
}

func newProvider(cfg analyzer.EmbedderConfig) (analyzer.Embedder, error) {
	switch cfg.Provider {
	case analyzer.ProviderOrt, "":
		return analyzer.NewLazyEmbedder(analyzer.OrtModelID(cfg), func() (analyzer.Embedder, error) {
			return analyzer.NewOrtEmbedder(cfg)
		}), nil
	case analyzer.ProviderVoyage:
		return voyage.New(cfg.APIKey,
			voyage.WithModel(cfg.RemoteModel),
			voyage.WithDimensions(cfg.Dimensions),
		)
	case analyzer.ProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.RemoteModel,
			Dimensions: cfg.Dimensions,
		})
	}
	return nil, fmt.Errorf("unknown embedder provider %q", cfg.Provider)
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
