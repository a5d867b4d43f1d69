package models

// ChunkType tags how a chunk was cut from its document.
type ChunkType string

const (
	ChunkRegular      ChunkType = "regular"
	ChunkSteps        ChunkType = "steps"
	ChunkMultilingual ChunkType = "multilingual"
	ChunkFlowchart    ChunkType = "flowchart"
)

// Protected reports whether chunks of this type bypass the word count bounds.
func (t ChunkType) Protected() bool {
	return t == ChunkMultilingual || t == ChunkFlowchart || t == ChunkSteps
}

// Document is the raw text of one knowledge base file.
type Document struct {
	Source  string
	Content string
}

// Chunk represents a retrievable span of a document with metadata
type Chunk struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Type      ChunkType `json:"type"`
	Ordinal   int       `json:"ordinal"`
	Languages []string  `json:"languages,omitempty"`
	Content   string    `json:"content"`
}

// Metadata keys stored next to each chunk in the vector index.
const (
	MetaSource    = "source"
	MetaType      = "type"
	MetaOrdinal   = "ordinal"
	MetaLanguages = "languages"
)
