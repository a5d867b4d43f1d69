package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"claimflow-rag/internal/config"
)

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i] * b[i])
	}
	return s
}

func TestHashEmbedder_deterministicAndNormalised(t *testing.T) {
	e := NewHashEmbedder(128)
	ctx := context.Background()
	a, _ := e.EmbedQuery(ctx, "Hospital bills and discharge summary")
	b, _ := e.EmbedQuery(ctx, "Hospital bills and discharge summary")
	if len(a) != 128 {
		t.Fatalf("dimension = %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text should embed identically")
		}
	}
	if n := math.Sqrt(dot(a, a)); math.Abs(n-1) > 1e-5 {
		t.Errorf("norm = %f, want 1", n)
	}
	empty, _ := e.EmbedQuery(ctx, "")
	if n := math.Sqrt(dot(empty, empty)); math.Abs(n-1) > 1e-5 {
		t.Errorf("empty text norm = %f, want 1", n)
	}
}

func TestHashEmbedder_similarity(t *testing.T) {
	e := NewHashEmbedder(512)
	ctx := context.Background()
	docs, err := e.EmbedDocuments(ctx, []string{
		"Health insurance claims need hospital bills and the discharge summary",
		"Compound interest grows savings over many years",
	})
	if err != nil {
		t.Fatal(err)
	}
	q, _ := e.EmbedQuery(ctx, "documents for a health insurance claim")
	if dot(q, docs[0]) <= dot(q, docs[1]) {
		t.Errorf("claim query should be closer to the claims text: %f vs %f", dot(q, docs[0]), dot(q, docs[1]))
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("What are the Claims, documents & bills for my policy?")
	want := []string{"claim", "document", "bill", "policy"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

type failingEmbedder struct{ *HashEmbedder }

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

func TestEmbedInBatches(t *testing.T) {
	e := NewHashEmbedder(16)
	texts := []string{"one claim", "two claims", "three claims", "four", "five"}
	vectors, err := EmbedInBatches(context.Background(), e, texts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != len(texts) {
		t.Errorf("got %d vectors, want %d", len(vectors), len(texts))
	}

	_, err = EmbedInBatches(context.Background(), failingEmbedder{e}, texts, 2)
	if err == nil {
		t.Error("expected provider error to propagate")
	}
}

type countingEmbedder struct {
	*HashEmbedder
	queries int
}

func (c *countingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	c.queries++
	return c.HashEmbedder.EmbedQuery(ctx, text)
}

func TestCachedEmbedder(t *testing.T) {
	inner := &countingEmbedder{HashEmbedder: NewHashEmbedder(16)}
	c := NewCachedEmbedder(inner, 2)
	ctx := context.Background()
	c.EmbedQuery(ctx, "a claim")
	c.EmbedQuery(ctx, "a claim")
	if inner.queries != 1 {
		t.Errorf("inner queries = %d, want 1", inner.queries)
	}
	c.EmbedQuery(ctx, "b claim")
	c.EmbedQuery(ctx, "c claim")
	if c.Len() != 2 {
		t.Errorf("cache len = %d, want 2", c.Len())
	}
	c.EmbedQuery(ctx, "a claim")
	if inner.queries != 4 {
		t.Errorf("evicted entry should be recomputed, inner queries = %d", inner.queries)
	}
}

func TestNewEmbedder(t *testing.T) {
	e, err := NewEmbedder(context.Background(), &config.LLMConfig{Provider: "hash", Dimension: 32}, 8)
	if err != nil {
		t.Fatal(err)
	}
	if h, ok := e.(*HashEmbedder); !ok || h.Dimensions() != 32 {
		t.Errorf("expected 32 dimension hash embedder, got %T", e)
	}
	if _, err := NewEmbedder(context.Background(), &config.LLMConfig{Provider: "bogus"}, 8); err == nil {
		t.Error("expected error for unknown provider")
	}
}
