package models

import (
	"strconv"
	"strings"
)

// IndexEntry is one row of a vector index collection.
type IndexEntry struct {
	ID        string
	Embedding []float32
	Content   string
	Metadata  map[string]string
}

// SearchHit is a nearest neighbour returned by a vector index. Distance is the
// squared euclidean distance between unit vectors, 2(1 - cosine).
type SearchHit struct {
	ID       string
	Content  string
	Metadata map[string]string
	Distance float32
}

// EntryFromChunk builds the index row for c with its embedding.
func EntryFromChunk(c Chunk, embedding []float32) IndexEntry {
	meta := map[string]string{
		MetaSource:  c.Source,
		MetaType:    string(c.Type),
		MetaOrdinal: strconv.Itoa(c.Ordinal),
	}
	if len(c.Languages) > 0 {
		meta[MetaLanguages] = strings.Join(c.Languages, ",")
	}
	return IndexEntry{ID: c.ID, Embedding: embedding, Content: c.Content, Metadata: meta}
}
