package analyzer

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// VectorCache stores embeddings by content key.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Put(ctx context.Context, key string, vec []float32) error
}

// CacheKey hashes the model id and normalized text.
func CacheKey(modelID, text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, modelID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache keeps vectors in process memory.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string][]float32
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string][]float32)}
}

// Get implements VectorCache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	return cloneVector(v), true, nil
}

// Put implements VectorCache.
func (c *MemoryCache) Put(_ context.Context, key string, vec []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cloneVector(vec)
	return nil
}

// Len returns the number of cached vectors.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// DiskCache stores one little-endian file per vector under dir.
type DiskCache struct {
	dir string
}

// NewDiskCache creates dir if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Get implements VectorCache.
func (c *DiskCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	path := filepath.Join(c.dir, key+".bin")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	vec, err := DecodeVector(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return vec, true, nil
}

// Put implements VectorCache. Each writer gets its own temp file so
// concurrent puts of one key never rename a partial file.
func (c *DiskCache) Put(_ context.Context, key string, vec []float32) error {
	tmp, err := os.CreateTemp(c.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(EncodeVector(vec)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(c.dir, key+".bin")); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// EncodeVector writes a uint32 length followed by float32 values, little endian.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, 4+len(vec)*4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(vec)))
	off := 4
	for _, v := range vec {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	return buf
}

// DecodeVector reverses EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, errors.New("cache entry too small")
	}
	length := int(binary.LittleEndian.Uint32(data[:4]))
	data = data[4:]
	if len(data) != length*4 {
		return nil, errors.New("cache length mismatch")
	}
	vec := make([]float32, length)
	for i := 0; i < length; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : (i+1)*4]))
	}
	return vec, nil
}

// CachedEmbedder consults caches in order before calling the inner
// embedder. Misses are embedded in one batch and written to every cache.
// Cache errors are logged and treated as misses.
type CachedEmbedder struct {
	inner  Embedder
	caches []VectorCache
	logger *log.Logger
}

// NewCachedEmbedder wraps inner. Nil caches are skipped.
func NewCachedEmbedder(inner Embedder, logger *log.Logger, caches ...VectorCache) *CachedEmbedder {
	kept := make([]VectorCache, 0, len(caches))
	for _, c := range caches {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &CachedEmbedder{inner: inner, caches: kept, logger: logger}
}

// ModelID implements Embedder.
func (c *CachedEmbedder) ModelID() string {
	return c.inner.ModelID()
}

// Close implements Embedder.
func (c *CachedEmbedder) Close() error {
	return c.inner.Close()
}

// EmbedText implements Embedder.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	out, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedTexts implements Embedder.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missIdx []int
	var missTexts []string
	normalized := NormalizeAll(texts)
	for i, t := range texts {
		keys[i] = CacheKey(c.inner.ModelID(), normalized[i])
		if vec, hitAt := c.lookup(ctx, keys[i]); vec != nil {
			out[i] = vec
			c.backfill(ctx, keys[i], vec, hitAt)
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	vecs, err := c.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		c.backfill(ctx, keys[i], vecs[j], len(c.caches))
	}
	return out, nil
}

// lookup returns the first hit and the index of the cache that served it.
func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, int) {
	for i, cache := range c.caches {
		vec, ok, err := cache.Get(ctx, key)
		if err != nil {
			c.logf("vector cache read failed: %v", err)
			continue
		}
		if ok {
			return vec, i
		}
	}
	return nil, -1
}

// backfill writes vec into the caches in front of position upto.
func (c *CachedEmbedder) backfill(ctx context.Context, key string, vec []float32, upto int) {
	for i := 0; i < upto && i < len(c.caches); i++ {
		if err := c.caches[i].Put(ctx, key, vec); err != nil {
			c.logf("vector cache write failed: %v", err)
		}
	}
}

func (c *CachedEmbedder) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
