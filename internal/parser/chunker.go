package parser

import (
	"fmt"
	"regexp"
	"strings"

	"claimflow-rag/internal/models"
)

const (
	defaultMinWords = 25
	defaultMaxWords = 180
)

var languageMarkerRe = buildLanguageMarker(models.LanguageNames)

func buildLanguageMarker(names []string) *regexp.Regexp {
	alt := strings.Join(names, "|")
	return regexp.MustCompile(`(?i)^\s*[*_]*\s*(?:\[\s*(` + alt + `)\s*\]|\(\s*(` + alt + `)\s*\)|(` + alt + `)\s*:)[*_]*\s*(.*)$`)
}

// MatchLanguageMarker reports whether line is a multilingual marker. It
// returns the lowercased language name and any text following the marker.
func MatchLanguageMarker(line string) (lang, rest string, ok bool) {
	m := languageMarkerRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	for _, g := range m[1:4] {
		if g != "" {
			lang = strings.ToLower(g)
			break
		}
	}
	return lang, strings.TrimSpace(m[4]), true
}

// ChunkStats counts what the chunker threw away.
type ChunkStats struct {
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// Chunker cuts documents into sections and sections into typed chunks.
type Chunker struct {
	MinWords int
	MaxWords int

	headingRe   *regexp.Regexp
	ruleRe      *regexp.Regexp
	flowchartRe *regexp.Regexp
	stepRe      *regexp.Regexp
	connectorRe *regexp.Regexp
}

func NewChunker(minWords, maxWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = defaultMaxWords
	}
	if minWords <= 0 {
		minWords = defaultMinWords
	}
	if minWords > maxWords {
		minWords = maxWords
	}
	return &Chunker{
		MinWords:    minWords,
		MaxWords:    maxWords,
		headingRe:   regexp.MustCompile(models.HeadingRegex),
		ruleRe:      regexp.MustCompile(models.RuleRegex),
		flowchartRe: regexp.MustCompile(models.FlowchartRegex),
		stepRe:      regexp.MustCompile(models.StepMarkerRegex),
		connectorRe: regexp.MustCompile(models.ConnectorRegex),
	}
}

type chunkState struct {
	source  string
	ordinal int
	skipped int
	result  []models.Chunk

	paragraphs []string
	words      int
}

// ChunkAll chunks every document and drops chunks whose case-normalised text
// was already seen, keeping the first occurrence.
func (c *Chunker) ChunkAll(docs []models.Document) ([]models.Chunk, ChunkStats) {
	var (
		all   []models.Chunk
		stats ChunkStats
		seen  = make(map[string]bool)
	)
	for _, doc := range docs {
		chunks, skipped := c.Chunk(doc)
		stats.Skipped += skipped
		for _, ch := range chunks {
			key := NormalizeText(ch.Content)
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
			all = append(all, ch)
		}
	}
	return all, stats
}

// Chunk splits one document. It returns the chunks in document order and the
// number of fragments discarded as noise.
func (c *Chunker) Chunk(doc models.Document) ([]models.Chunk, int) {
	state := &chunkState{source: doc.Source}
	for _, section := range c.sections(doc.Content) {
		c.processSection(section, state)
	}
	return state.result, state.skipped
}

// sections splits text at markdown headings and horizontal rules. A heading
// opens a new section and belongs to it; a rule only closes one.
func (c *Chunker) sections(text string) []string {
	var (
		sections []string
		current  []string
		fenced   bool
	)
	flush := func() {
		if s := strings.TrimSpace(strings.Join(current, "\n")); s != "" {
			sections = append(sections, s)
		}
		current = nil
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fenced = !fenced
			current = append(current, line)
			continue
		}
		if !fenced {
			if c.ruleRe.MatchString(line) {
				flush()
				continue
			}
			if c.headingRe.MatchString(line) {
				flush()
			}
		}
		current = append(current, line)
	}
	flush()
	return sections
}

func (c *Chunker) processSection(section string, state *chunkState) {
	typ, langs := c.sectionType(section)
	if typ.Protected() {
		c.emit(state, typ, section, langs)
		return
	}

	for _, p := range splitParagraphs(section) {
		c.addParagraph(state, p)
	}
	c.flushRegular(state)
}

// sectionType picks the first matching layer: multilingual, flowchart,
// steps, then regular.
func (c *Chunker) sectionType(section string) (models.ChunkType, []string) {
	if langs := c.languages(section); len(langs) > 0 {
		return models.ChunkMultilingual, langs
	}
	if c.flowchartRe.MatchString(section) {
		return models.ChunkFlowchart, nil
	}
	if c.stepRe.MatchString(section) && c.connectorRe.MatchString(section) {
		return models.ChunkSteps, nil
	}
	return models.ChunkRegular, nil
}

// addParagraph accumulates p into the pending regular chunk, flushing first
// when p would push it over MaxWords. Paragraphs longer than MaxWords are cut
// into word windows; a short tail window starts the next accumulation.
func (c *Chunker) addParagraph(state *chunkState, p string) {
	n := wordCount(p)
	if n > c.MaxWords {
		c.flushRegular(state)
		words := strings.Fields(p)
		for start := 0; start < len(words); start += c.MaxWords {
			end := min(start+c.MaxWords, len(words))
			window := strings.Join(words[start:end], " ")
			if end-start < c.MinWords {
				state.paragraphs = append(state.paragraphs, window)
				state.words += end - start
				continue
			}
			c.emit(state, models.ChunkRegular, window, nil)
		}
		return
	}
	if state.words > 0 && state.words+n > c.MaxWords {
		c.flushRegular(state)
	}
	state.paragraphs = append(state.paragraphs, p)
	state.words += n
}

func (c *Chunker) flushRegular(state *chunkState) {
	if len(state.paragraphs) == 0 {
		return
	}
	if state.words >= c.MinWords {
		c.emit(state, models.ChunkRegular, strings.Join(state.paragraphs, "\n\n"), nil)
	} else {
		state.skipped++
	}
	state.paragraphs = nil
	state.words = 0
}

func (c *Chunker) emit(state *chunkState, typ models.ChunkType, content string, langs []string) {
	state.ordinal++
	state.result = append(state.result, models.Chunk{
		ID:        fmt.Sprintf("%s-%s-%d", state.source, typ, state.ordinal),
		Source:    state.source,
		Type:      typ,
		Ordinal:   state.ordinal,
		Languages: langs,
		Content:   strings.TrimSpace(content),
	})
}

// languages lists the distinct marker languages of a section in order of
// first appearance.
func (c *Chunker) languages(section string) []string {
	var langs []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(section, "\n") {
		lang, _, ok := MatchLanguageMarker(line)
		if !ok || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	return langs
}

func splitParagraphs(section string) []string {
	var (
		out     []string
		current []string
	)
	for _, line := range strings.Split(section, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				out = append(out, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, "\n"))
	}
	return out
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// NormalizeText lowercases s and collapses all whitespace runs to one space.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
