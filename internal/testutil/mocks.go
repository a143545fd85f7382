package testutil

import (
	"context"
	"sync"
)

// MockEmbedder is a mock embedder for testing. Vectors are looked up by
// exact text first, then EmbedTextsFunc is consulted, then a length based
// default is returned.
type MockEmbedder struct {
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)
	Vectors        map[string][]float32
	ID             string

	mu         sync.Mutex
	CallCount  int
	TextsSeen  []string
	CloseCount int
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	out, err := m.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.TextsSeen = append(m.TextsSeen, texts...)
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := m.Vectors[t]; ok {
			out[i] = v
			continue
		}
		// Default: a simple embedding based on text length
		out[i] = []float32{float32(len(t)) / 100.0, 1}
	}
	return out, nil
}

func (m *MockEmbedder) Close() error {
	m.mu.Lock()
	m.CloseCount++
	m.mu.Unlock()
	return nil
}

func (m *MockEmbedder) ModelID() string {
	if m.ID == "" {
		return "mock"
	}
	return m.ID
}

// Calls returns the number of EmbedTexts calls so far.
func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockVectorCache is an in-memory vector cache with injectable failures.
type MockVectorCache struct {
	GetErr error
	PutErr error

	mu       sync.Mutex
	Storage  map[string][]float32
	GetCount int
	PutCount int
}

func NewMockVectorCache() *MockVectorCache {
	return &MockVectorCache{Storage: make(map[string][]float32)}
}

func (m *MockVectorCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCount++
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Storage[key]
	return v, ok, nil
}

func (m *MockVectorCache) Put(_ context.Context, key string, vec []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCount++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Storage[key] = vec
	return nil
}
