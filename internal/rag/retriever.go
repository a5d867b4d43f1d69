package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"claimflow-rag/internal/models"
	"claimflow-rag/internal/parser"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
)

const dedupPrefixRunes = 80

// Options tune one retrieval.
type Options struct {
	K             int
	MinSimilarity float64
	// Language selects one segment of multilingual chunks, e.g. "hindi".
	Language string
	// Speech renders the context for text to speech.
	Speech bool
}

// Passage is one retrieved chunk.
type Passage struct {
	ID         string           `json:"id"`
	Source     string           `json:"source"`
	Type       models.ChunkType `json:"type"`
	Similarity float64          `json:"similarity"`
	Text       string           `json:"text"`
}

// Context is the ordered result of a retrieval.
type Context struct {
	Passages []Passage `json:"passages"`
}

// Text joins the passages into the context handed to the model.
func (c *Context) Text() string {
	if c == nil {
		return ""
	}
	parts := make([]string, 0, len(c.Passages))
	for _, p := range c.Passages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, models.ContextSeparator)
}

type Retriever struct {
	index      VectorIndex
	embedder   embeddings.Embedder
	collection string
	multiplier int
}

// NewRetriever queries collection in index, fetching multiplier times the
// requested number of candidates before filtering.
func NewRetriever(index VectorIndex, embedder embeddings.Embedder, collection string, multiplier int) *Retriever {
	if multiplier < 1 {
		multiplier = 3
	}
	return &Retriever{
		index:      index,
		embedder:   embedder,
		collection: collection,
		multiplier: multiplier,
	}
}

// Retrieve returns the joined context for query, or "" when nothing relevant
// was found or retrieval failed.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, minSimilarity float64) string {
	return r.RetrieveWith(ctx, query, Options{K: k, MinSimilarity: minSimilarity})
}

// RetrieveWith is Retrieve with language and speech options.
func (r *Retriever) RetrieveWith(ctx context.Context, query string, opts Options) string {
	c, err := r.Search(ctx, query, opts)
	if err != nil {
		if !errors.Is(err, ErrEmptyQuery) {
			log.Warn().Err(err).Msg("Retrieval failed, continuing without context")
		}
		return ""
	}
	return c.Text()
}

// Search runs the full retrieval and reports failures. An index that exists
// but is empty yields an empty context and no error.
func (r *Retriever) Search(ctx context.Context, query string, opts Options) (*Context, error) {
	q := NormalizeQuery(query)
	if len(strings.Fields(q)) < 2 {
		return nil, ErrEmptyQuery
	}
	k := opts.K
	if k <= 0 {
		k = 3
	}

	count, err := r.index.Count(ctx, r.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	if count == 0 {
		return &Context{}, nil
	}

	emb, err := r.embedder.EmbedQuery(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.index.Query(ctx, r.collection, emb, min(k*r.multiplier, count))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	lang := strings.ToLower(strings.TrimSpace(opts.Language))
	seen := make(map[string]bool)
	var passages []Passage
	for _, h := range hits {
		sim := Similarity(h.Distance)
		if sim < opts.MinSimilarity {
			continue
		}
		typ := models.ChunkType(h.Metadata[models.MetaType])
		text := h.Content
		if lang != "" && typ == models.ChunkMultilingual {
			if seg := ExtractLanguage(text, lang); seg != "" {
				text = seg
			}
		}
		key := dedupKey(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		passages = append(passages, Passage{
			ID:         h.ID,
			Source:     h.Metadata[models.MetaSource],
			Type:       typ,
			Similarity: sim,
			Text:       text,
		})
	}

	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Similarity > passages[j].Similarity
	})
	if len(passages) > k {
		passages = passages[:k]
	}
	if opts.Speech {
		for i := range passages {
			passages[i].Text = SpeechText(passages[i].Text)
		}
	}

	log.Debug().Int("candidates", len(hits)).Int("kept", len(passages)).Msg("Retrieved context")
	return &Context{Passages: passages}, nil
}

// NormalizeQuery collapses whitespace runs and trims.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func dedupKey(text string) string {
	r := []rune(parser.NormalizeText(text))
	if len(r) > dedupPrefixRunes {
		r = r[:dedupPrefixRunes]
	}
	return string(r)
}
