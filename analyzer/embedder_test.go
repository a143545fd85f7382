package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"yashubustudio/contextanalyzer/internal/testutil"
)

func TestLazyEmbedderBuildsOnce(t *testing.T) {
	var builds int
	var mu sync.Mutex
	inner := &testutil.MockEmbedder{}
	lazy := NewLazyEmbedder("lazy-model", func() (Embedder, error) {
		mu.Lock()
		builds++
		mu.Unlock()
		return inner, nil
	})
	if lazy.ModelID() != "lazy-model" {
		t.Errorf("ModelID = %q", lazy.ModelID())
	}
	if builds != 0 {
		t.Fatal("constructor ran before first use")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = lazy.EmbedText(context.Background(), "x")
		}()
	}
	wg.Wait()
	if builds != 1 {
		t.Errorf("builds = %d, want 1", builds)
	}
	if err := lazy.Close(); err != nil {
		t.Fatal(err)
	}
	if inner.CloseCount != 1 {
		t.Errorf("inner CloseCount = %d", inner.CloseCount)
	}
}

func TestLazyEmbedderRemembersFailure(t *testing.T) {
	var builds int
	lazy := NewLazyEmbedder("m", func() (Embedder, error) {
		builds++
		return nil, errors.New("model file missing")
	})
	for i := 0; i < 2; i++ {
		if _, err := lazy.EmbedTexts(context.Background(), []string{"x"}); err == nil || !strings.Contains(err.Error(), "model file missing") {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if builds != 1 {
		t.Errorf("builds = %d, want 1", builds)
	}
}

func TestLazyEmbedderCloseBeforeUse(t *testing.T) {
	lazy := NewLazyEmbedder("m", func() (Embedder, error) {
		t.Fatal("constructor should not run on Close")
		return nil, nil
	})
	if err := lazy.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := lazy.EmbedText(context.Background(), "x"); err == nil {
		t.Fatal("expected error after Close")
	}
}

func TestEmbedSentences(t *testing.T) {
	ctx := context.Background()
	opt, err := embedSentences(ctx, &testutil.MockEmbedder{}, nil)
	if err != nil || opt.IsPresent() {
		t.Fatalf("empty input should be None, got %v %v", opt, err)
	}

	opt, err = embedSentences(ctx, &testutil.MockEmbedder{}, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if vecs, ok := opt.Get(); !ok || len(vecs) != 2 {
		t.Fatalf("expected two vectors, got %v", opt)
	}
}

func TestEmbedSentencesErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		fn   func(context.Context, []string) ([][]float32, error)
	}{
		{"provider error", func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("boom")
		}},
		{"count mismatch", func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}},
		{"panic", func(context.Context, []string) ([][]float32, error) {
			panic("onnx session crashed")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := embedSentences(ctx, &testutil.MockEmbedder{EmbedTextsFunc: tt.fn}, []string{"a", "b"})
			if err == nil {
				t.Fatal("expected error")
			}
			if opt.IsPresent() {
				t.Error("failed embedding should be None")
			}
		})
	}
}

func TestOrtEmbedderClosedOrNil(t *testing.T) {
	var nilEmb *OrtEmbedder
	if _, err := nilEmb.EmbedText(context.Background(), "x"); err == nil {
		t.Error("expected error from nil embedder")
	}
	if err := nilEmb.Close(); err != nil {
		t.Error(err)
	}
	closed := &OrtEmbedder{cfg: EmbedderConfig{ModelID: "m"}}
	if _, err := closed.EmbedTexts(context.Background(), []string{"x"}); err == nil {
		t.Error("expected error from closed embedder")
	}
	if closed.ModelID() != "m" {
		t.Errorf("ModelID = %q", closed.ModelID())
	}
}
