package embedding

import (
	"context"
	"fmt"
	"strings"

	"claimflow-rag/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewEmbedder creates the embedder selected by cfg.Provider. The same
// configuration must be used at build time and query time.
func NewEmbedder(ctx context.Context, cfg *config.LLMConfig, batchSize int) (embeddings.Embedder, error) {
	log.Debug().Interface("config", map[string]string{
		"provider":        cfg.Provider,
		"base_url":        cfg.BaseURL,
		"embedding_model": cfg.Model,
	}).Msg("Creating embedder")

	if batchSize <= 0 {
		batchSize = 32
	}

	var client embeddings.EmbedderClient
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithEmbeddingModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("error initializing openai embedder: %w", err)
		}
		client = llm
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("error initializing ollama embedder: %w", err)
		}
		client = llm
	case "googleai":
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.Key),
			googleai.WithDefaultEmbeddingModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("error initializing googleai embedder: %w", err)
		}
		client = llm
	case "hash":
		return NewHashEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithBatchSize(batchSize))
	if err != nil {
		return nil, fmt.Errorf("error creating embedder: %w", err)
	}
	return embedder, nil
}

// EmbedInBatches embeds texts batchSize at a time and checks that every
// vector came back with the same dimension.
func EmbedInBatches(ctx context.Context, e embeddings.Embedder, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = len(texts)
	}
	out := make([][]float32, 0, len(texts))
	dim := 0
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		vectors, err := e.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("embedding batch %d-%d: got %d vectors", start, end, len(vectors))
		}
		for _, v := range vectors {
			if dim == 0 {
				dim = len(v)
			}
			if len(v) == 0 || len(v) != dim {
				return nil, fmt.Errorf("embedding batch %d-%d: inconsistent dimension %d, want %d", start, end, len(v), dim)
			}
		}
		out = append(out, vectors...)
		log.Debug().Int("done", end).Int("total", len(texts)).Msg("Embedded batch")
	}
	return out, nil
}
