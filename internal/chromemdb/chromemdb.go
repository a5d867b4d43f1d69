package chromemdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"claimflow-rag/internal/models"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

// ErrCollectionNotFound is returned when a collection has not been created.
var ErrCollectionNotFound = errors.New("collection not found")

var errNoEmbeddingFunc = errors.New("chromemdb: embeddings must be supplied by the caller")

// VectorDBManager encapsulates the chromem-go database operations
type VectorDBManager struct {
	db            *chromem.DB
	dbPath        string
	compress      bool
	encryptionKey string

	// guards collection replacement against concurrent lookups
	mu sync.RWMutex
}

// NewVectorDBManager opens a persistent database under dbPath, or an
// in-memory one when inMemory is set. encryptionKey, when given, must be 32
// bytes and is only used for snapshot export and import.
func NewVectorDBManager(dbPath string, inMemory, compress bool, encryptionKey string) (*VectorDBManager, error) {
	if encryptionKey != "" && len(encryptionKey) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(encryptionKey))
	}
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	return &VectorDBManager{
		db:            db,
		dbPath:        dbPath,
		compress:      compress,
		encryptionKey: encryptionKey,
	}, nil
}

func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}

func (m *VectorDBManager) collection(name string) (*chromem.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.db.GetCollection(name, noEmbedding)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return c, nil
}

// CreateCollection creates an empty collection, or opens it if it exists.
func (m *VectorDBManager) CreateCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.db.GetOrCreateCollection(name, nil, noEmbedding); err != nil {
		return fmt.Errorf("failed to create/get collection: %w", err)
	}
	return nil
}

// DeleteCollection drops a collection. Deleting a missing one is not an error.
func (m *VectorDBManager) DeleteCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// Add stores entries with their precomputed embeddings.
func (m *VectorDBManager) Add(ctx context.Context, name string, entries []models.IndexEntry) error {
	c, err := m.collection(name)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, chromem.Document{
			ID:        e.ID,
			Content:   e.Content,
			Metadata:  e.Metadata,
			Embedding: e.Embedding,
		})
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Query returns up to topN nearest entries. chromem reports cosine
// similarity, converted here to the squared euclidean distance 2(1 - sim).
func (m *VectorDBManager) Query(ctx context.Context, name string, embedding []float32, topN int) ([]models.SearchHit, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding must be provided")
	}
	c, err := m.collection(name)
	if err != nil {
		return nil, err
	}
	n := min(topN, c.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := c.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, models.SearchHit{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: 2 * (1 - r.Similarity),
		})
	}
	return hits, nil
}

func (m *VectorDBManager) Count(_ context.Context, name string) (int, error) {
	c, err := m.collection(name)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// SnapshotPath is the default export location for a collection.
func (m *VectorDBManager) SnapshotPath(name string) string {
	ext := ".gob"
	if m.compress {
		ext += ".gz"
	}
	if m.encryptionKey != "" {
		ext += ".enc"
	}
	return filepath.Join(m.dbPath, name+ext)
}

// Export writes the named collection to filePath, encrypted when the manager
// has a key.
func (m *VectorDBManager) Export(_ context.Context, filePath, name string) error {
	if _, err := m.collection(name); err != nil {
		return err
	}
	if filePath == "" {
		filePath = m.SnapshotPath(name)
	}

	log.Debug().
		Str("collection", name).
		Str("file", filePath).
		Bool("compress", m.compress).
		Bool("encrypted", m.encryptionKey != "").
		Msg("Exporting collection")

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.db.ExportToFile(filePath, m.compress, m.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return nil
}

// Import loads the named collection from a snapshot written by Export.
func (m *VectorDBManager) Import(_ context.Context, filePath, name string) error {
	if filePath == "" {
		filePath = m.SnapshotPath(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.db.ImportFromFile(filePath, m.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to import database: %w", err)
	}
	return nil
}

// Close is a no-op; persistent chromem databases write through on change.
func (m *VectorDBManager) Close() error {
	return nil
}
