package parser

import (
	"fmt"
	"strings"
	"testing"

	"claimflow-rag/internal/models"
)

// para builds a paragraph of n distinct words prefixed with tag.
func para(tag string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", tag, i)
	}
	return strings.Join(words, " ")
}

func TestChunk_regularAccumulation(t *testing.T) {
	c := NewChunker(10, 50)
	doc := models.Document{
		Source:  "claims.txt",
		Content: para("a", 20) + "\n\n" + para("b", 20) + "\n\n" + para("c", 20),
	}
	chunks, skipped := c.Chunk(doc)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if !strings.Contains(chunks[0].Content, "a0") || !strings.Contains(chunks[0].Content, "b19") {
		t.Errorf("first chunk should hold paragraphs a and b: %q", chunks[0].Content)
	}
	if !strings.HasPrefix(chunks[1].Content, "c0") {
		t.Errorf("second chunk should start with the overflowing paragraph: %q", chunks[1].Content)
	}
	for _, ch := range chunks {
		if ch.Type != models.ChunkRegular {
			t.Errorf("type = %s, want regular", ch.Type)
		}
		if n := wordCount(ch.Content); n < c.MinWords || n > c.MaxWords {
			t.Errorf("chunk %s has %d words, outside [%d, %d]", ch.ID, n, c.MinWords, c.MaxWords)
		}
	}
	if chunks[0].ID != "claims.txt-regular-1" || chunks[1].ID != "claims.txt-regular-2" {
		t.Errorf("unexpected ids %s, %s", chunks[0].ID, chunks[1].ID)
	}
}

func TestChunk_noiseDiscarded(t *testing.T) {
	c := NewChunker(10, 50)
	doc := models.Document{
		Source:  "a.md",
		Content: "# Intro\n\nToo short.\n\n---\n\n# Body\n\n" + para("w", 30),
	}
	chunks, skipped := c.Chunk(doc)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.HasPrefix(chunks[0].Content, "# Body") {
		t.Errorf("heading should open its section: %q", chunks[0].Content)
	}
}

func TestChunk_oversizedParagraph(t *testing.T) {
	c := NewChunker(10, 50)
	doc := models.Document{Source: "long.txt", Content: para("x", 125)}
	chunks, _ := c.Chunk(doc)
	// two full windows of 50 and a 25 word tail
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for _, ch := range chunks {
		if n := wordCount(ch.Content); n > c.MaxWords {
			t.Errorf("chunk %s has %d words, above max", ch.ID, n)
		}
	}
}

func TestChunk_multilingualKeptIntact(t *testing.T) {
	c := NewChunker(10, 20)
	content := "## Claim help\n\nEnglish:\n" + para("en", 30) + "\n\nHindi:\n" + para("hi", 30) + "\n\n[Telugu]\n" + para("te", 5)
	chunks, _ := c.Chunk(models.Document{Source: "ml.txt", Content: content})
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	ch := chunks[0]
	if ch.Type != models.ChunkMultilingual {
		t.Errorf("type = %s, want multilingual", ch.Type)
	}
	if got := strings.Join(ch.Languages, ","); got != "english,hindi,telugu" {
		t.Errorf("languages = %s", got)
	}
	if wordCount(ch.Content) <= c.MaxWords {
		t.Errorf("multilingual chunk should bypass the size bound")
	}
}

func TestChunk_flowchartAndSteps(t *testing.T) {
	c := NewChunker(10, 200)
	content := "# Claim flowchart\n\nReport -> Review -> Settle\n\n---\n\n" +
		"# Filing steps\n\nStep 1: call the insurer\n↓\nStep 2: submit documents\n\n---\n\n" +
		"# Numbered list without arrows\n\n1. one item\n2. another item " + para("n", 12)
	chunks, _ := c.Chunk(models.Document{Source: "flow.md", Content: content})
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %+v", len(chunks), chunks)
	}
	want := []models.ChunkType{models.ChunkFlowchart, models.ChunkSteps, models.ChunkRegular}
	for i, typ := range want {
		if chunks[i].Type != typ {
			t.Errorf("chunk %d type = %s, want %s", i, chunks[i].Type, typ)
		}
	}
	// the flowchart is shorter than MinWords and still kept
	if n := wordCount(chunks[0].Content); n >= c.MinWords {
		t.Errorf("fixture flowchart has %d words, expected fewer than %d", n, c.MinWords)
	}
}

func TestChunkType_Protected(t *testing.T) {
	for _, typ := range []models.ChunkType{models.ChunkMultilingual, models.ChunkFlowchart, models.ChunkSteps} {
		if !typ.Protected() {
			t.Errorf("%s should bypass the size bounds", typ)
		}
	}
	if models.ChunkRegular.Protected() {
		t.Error("regular chunks are size bounded")
	}
}

func TestChunk_fencedMermaid(t *testing.T) {
	c := NewChunker(5, 100)
	content := "# Flow\n\n```mermaid\ngraph TD\n---\nA-->B\n```\n"
	chunks, _ := c.Chunk(models.Document{Source: "m.md", Content: content})
	if len(chunks) != 1 || chunks[0].Type != models.ChunkFlowchart {
		t.Fatalf("expected one flowchart chunk, got %+v", chunks)
	}
	if !strings.Contains(chunks[0].Content, "A-->B") {
		t.Errorf("rule inside a fence must not split the section")
	}
}

func TestChunkAll_dedupAndDeterminism(t *testing.T) {
	c := NewChunker(10, 100)
	body := para("dup", 20)
	docs := []models.Document{
		{Source: "one.txt", Content: body},
		{Source: "two.txt", Content: strings.ToUpper(body)},
		{Source: "three.txt", Content: para("uniq", 20)},
	}
	first, stats := c.ChunkAll(docs)
	if stats.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", stats.Duplicates)
	}
	if len(first) != 2 || first[0].Source != "one.txt" {
		t.Fatalf("expected first occurrence kept, got %+v", first)
	}

	second, _ := c.ChunkAll(docs)
	if len(first) != len(second) {
		t.Fatalf("rebuild changed chunk count: %d vs %d", len(first), len(second))
	}
	ids := make(map[string]bool)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("id %d changed: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if ids[first[i].ID] {
			t.Errorf("duplicate id %s", first[i].ID)
		}
		ids[first[i].ID] = true
	}
}

func TestMatchLanguageMarker(t *testing.T) {
	tests := []struct {
		line string
		lang string
		rest string
		ok   bool
	}{
		{"English:", "english", "", true},
		{"**Hindi:** दावा प्रक्रिया", "hindi", "दावा प्रक्रिया", true},
		{"[Tamil]", "tamil", "", true},
		{"(Kannada)", "kannada", "", true},
		{"English is spoken widely", "", "", false},
		{"Claim: approved", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			lang, rest, ok := MatchLanguageMarker(tt.line)
			if ok != tt.ok || lang != tt.lang || rest != tt.rest {
				t.Errorf("got (%q, %q, %v), want (%q, %q, %v)", lang, rest, ok, tt.lang, tt.rest, tt.ok)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  Hello\n\tWORLD  "); got != "hello world" {
		t.Errorf("got %q", got)
	}
}
