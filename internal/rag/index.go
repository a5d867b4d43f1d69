package rag

import (
	"context"
	"errors"
	"fmt"

	"claimflow-rag/internal/chromemdb"
	"claimflow-rag/internal/config"
	"claimflow-rag/internal/db"
	"claimflow-rag/internal/models"
)

var (
	ErrEmptyQuery       = errors.New("query is empty or too short to search")
	ErrNoChunks         = errors.New("no valid chunks to index")
	ErrIndexUnavailable = errors.New("vector index unavailable")
)

// VectorIndex is a named-collection nearest neighbour store. Query distances
// follow the models.SearchHit convention.
type VectorIndex interface {
	CreateCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error
	Add(ctx context.Context, name string, entries []models.IndexEntry) error
	Query(ctx context.Context, name string, embedding []float32, topN int) ([]models.SearchHit, error)
	Count(ctx context.Context, name string) (int, error)
	Close() error
}

// Similarity maps a squared euclidean distance between unit vectors to
// cosine similarity.
func Similarity(distance float32) float64 {
	return 1 - float64(distance)/2
}

// OpenIndex opens the backend selected by cfg.RAG.Backend.
func OpenIndex(ctx context.Context, cfg *config.Config) (VectorIndex, error) {
	switch cfg.RAG.Backend {
	case "", "chromem":
		m, err := chromemdb.NewVectorDBManager(cfg.RAG.DBPath, cfg.RAG.InMemory, cfg.RAG.Compress, cfg.RAG.EncryptionKey)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "pgvector":
		s, err := db.NewStore(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", cfg.RAG.Backend)
	}
}
