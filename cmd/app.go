package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"claimflow-rag/internal/assistant"
	"claimflow-rag/internal/chromemdb"
	"claimflow-rag/internal/config"
	"claimflow-rag/internal/embedding"
	"claimflow-rag/internal/helper"
	"claimflow-rag/internal/llmservice"
	"claimflow-rag/internal/rag"
)

const queryCacheSize = 256

// app owns the process wide index, embedder and model client. Rebuilds take
// the write lock so they never overlap with a query.
type app struct {
	cfg       *config.Config
	index     rag.VectorIndex
	builder   *rag.Builder
	retriever *rag.Retriever
	assistant *assistant.Assistant
	mu        sync.RWMutex
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if cfg.RAG.Backend == "" || cfg.RAG.Backend == "chromem" {
		if !cfg.RAG.InMemory {
			if err := helper.CreateFolder(cfg.RAG.DBPath); err != nil {
				return nil, err
			}
		}
	}
	index, err := rag.OpenIndex(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error opening vector index: %w", err)
	}

	embedder, err := embedding.NewEmbedder(ctx, &cfg.EmbedLLM, cfg.RAG.BatchSize)
	if err != nil {
		index.Close()
		return nil, err
	}

	a := &app{
		cfg:   cfg,
		index: index,
		builder: rag.NewBuilder(index, embedder, rag.BuilderConfig{
			Collection: cfg.RAG.CollectionName,
			Extensions: cfg.RAG.Extensions,
			MinWords:   cfg.RAG.MinWords,
			MaxWords:   cfg.RAG.MaxWords,
			BatchSize:  cfg.RAG.BatchSize,
		}),
		retriever: rag.NewRetriever(index, queryEmbedder(embedder), cfg.RAG.CollectionName, cfg.RAG.CandidateMultiplier),
	}

	var provider llmservice.Provider
	client, err := llmservice.NewClient(ctx, &cfg.LLM)
	if err != nil {
		log.Error().Err(err).Msg("LLM client unavailable, answers will report the configuration error")
		provider = llmservice.Unavailable(err)
	} else {
		provider = client
	}
	a.assistant = assistant.New(a, provider, assistant.Config{
		Models:        cfg.LLM.Models(),
		Temperature:   *cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		TopK:          cfg.RAG.TopK,
		MinSimilarity: *cfg.RAG.MinSimilarity,
	})

	if err := a.importSnapshot(ctx); err != nil {
		log.Warn().Err(err).Msg("Snapshot not loaded")
	}
	return a, nil
}

func queryEmbedder(e embeddings.Embedder) embeddings.Embedder {
	return embedding.NewCachedEmbedder(e, queryCacheSize)
}

// Build rebuilds the knowledge store.
func (a *app) Build(ctx context.Context) (rag.BuildReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	report, err := a.builder.Build(ctx, a.cfg.RAG.KnowledgeDir)
	if err != nil {
		return report, err
	}
	helper.PrettyPrint(report)
	return report, nil
}

// Export writes a snapshot of the collection. Only the chromem backend
// supports snapshots.
func (a *app) Export(ctx context.Context) error {
	m, ok := a.index.(*chromemdb.VectorDBManager)
	if !ok {
		return errors.New("snapshots require the chromem backend")
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	path := a.cfg.RAG.SnapshotPath
	if path == "" {
		path = m.SnapshotPath(a.cfg.RAG.CollectionName)
	}
	if err := m.Export(ctx, path, a.cfg.RAG.CollectionName); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("Exported knowledge store")
	return nil
}

// importSnapshot loads the exported collection into an in-memory index.
func (a *app) importSnapshot(ctx context.Context) error {
	m, ok := a.index.(*chromemdb.VectorDBManager)
	if !ok || !a.cfg.RAG.InMemory {
		return nil
	}
	path := a.cfg.RAG.SnapshotPath
	if path == "" {
		path = m.SnapshotPath(a.cfg.RAG.CollectionName)
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if err := m.Import(ctx, path, a.cfg.RAG.CollectionName); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("Imported knowledge store")
	return nil
}

func (a *app) RetrieveWith(ctx context.Context, query string, opts rag.Options) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.retriever.RetrieveWith(ctx, query, opts)
}

func (a *app) Search(ctx context.Context, query string, opts rag.Options) (*rag.Context, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.retriever.Search(ctx, query, opts)
}

func (a *app) Respond(ctx context.Context, query string, opts assistant.Options) assistant.Response {
	return a.assistant.Respond(ctx, query, opts)
}

func (a *app) Close() {
	if err := a.index.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing vector index")
	}
}

func answerOptions(language string, speech bool) assistant.Options {
	return assistant.Options{Language: language, Speech: speech}
}
