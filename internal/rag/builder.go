package rag

import (
	"context"
	"fmt"

	"claimflow-rag/internal/embedding"
	"claimflow-rag/internal/models"
	"claimflow-rag/internal/parser"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
)

// BuildReport summarises one knowledge store build.
type BuildReport struct {
	Collection string `json:"collection"`
	Documents  int    `json:"documents"`
	Chunks     int    `json:"chunks"`
	Stored     int    `json:"stored"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
}

type BuilderConfig struct {
	Collection string
	Extensions []string
	MinWords   int
	MaxWords   int
	BatchSize  int
}

// Builder loads a knowledge directory, chunks and embeds it, and replaces
// the collection in the vector index.
type Builder struct {
	index    VectorIndex
	embedder embeddings.Embedder
	chunker  *parser.Chunker
	cfg      BuilderConfig
}

func NewBuilder(index VectorIndex, embedder embeddings.Embedder, cfg BuilderConfig) *Builder {
	return &Builder{
		index:    index,
		embedder: embedder,
		chunker:  parser.NewChunker(cfg.MinWords, cfg.MaxWords),
		cfg:      cfg,
	}
}

// Plan loads and chunks dir without touching the embedder or the index.
func (b *Builder) Plan(dir string) ([]models.Chunk, BuildReport, error) {
	report := BuildReport{Collection: b.cfg.Collection}
	docs, err := parser.LoadDocuments(dir, b.cfg.Extensions)
	if err != nil {
		return nil, report, err
	}
	report.Documents = len(docs)

	chunks, stats := b.chunker.ChunkAll(docs)
	report.Chunks = len(chunks)
	report.Skipped = stats.Skipped
	report.Duplicates = stats.Duplicates
	if len(chunks) == 0 {
		return nil, report, fmt.Errorf("%w in %s (%d documents, %d fragments below minimum)", ErrNoChunks, dir, len(docs), stats.Skipped)
	}
	return chunks, report, nil
}

// Build rebuilds the collection from dir. The previous collection is dropped
// only after every chunk has been embedded, so a failed build leaves it in
// place.
func (b *Builder) Build(ctx context.Context, dir string) (BuildReport, error) {
	chunks, report, err := b.Plan(dir)
	if err != nil {
		return report, err
	}
	log.Info().
		Int("documents", report.Documents).
		Int("chunks", report.Chunks).
		Int("skipped", report.Skipped).
		Int("duplicates", report.Duplicates).
		Msg("Chunked knowledge base")

	ids := make(map[string]bool, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		if ids[c.ID] {
			return report, fmt.Errorf("duplicate chunk id %s", c.ID)
		}
		ids[c.ID] = true
		texts[i] = c.Content
	}

	vectors, err := embedding.EmbedInBatches(ctx, b.embedder, texts, b.cfg.BatchSize)
	if err != nil {
		return report, fmt.Errorf("failed to embed chunks: %w", err)
	}

	entries := make([]models.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = models.EntryFromChunk(c, vectors[i])
	}

	name := b.cfg.Collection
	if err := b.index.DeleteCollection(ctx, name); err != nil {
		return report, err
	}
	if err := b.index.CreateCollection(ctx, name); err != nil {
		return report, err
	}
	if err := b.index.Add(ctx, name, entries); err != nil {
		return report, err
	}

	stored, err := b.index.Count(ctx, name)
	if err != nil {
		return report, err
	}
	report.Stored = stored
	log.Info().Str("collection", name).Int("stored", stored).Msg("Knowledge store built")
	return report, nil
}
