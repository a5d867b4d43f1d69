package parser

import (
	"archive/zip"
	"fmt"
	"html"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"claimflow-rag/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

var (
	xmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	slideNumRe   = regexp.MustCompile(`slide(\d+)\.xml$`)
)

// SupportedExtension reports whether ReadFile can extract text from ext.
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".md", ".pdf", ".docx", ".pptx", ".xlsx", ".xlsm", ".xltx":
		return true
	}
	return false
}

// LoadDocuments reads every file under dir whose extension is listed in exts.
// Unsupported or unreadable files are skipped with a warning. Sources are
// paths relative to dir with forward slashes, in lexical order.
func LoadDocuments(dir string, exts []string) ([]models.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("knowledge directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("knowledge directory: %s is not a directory", dir)
	}

	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var docs []models.Document
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !allowed[ext] || !SupportedExtension(ext) {
			log.Warn().Str("file", path).Msg("Skipping unsupported file")
			return nil
		}
		content, err := ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable file")
			return nil
		}
		if strings.TrimSpace(content) == "" {
			log.Warn().Str("file", path).Msg("Skipping empty file")
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		docs = append(docs, models.Document{
			Source:  filepath.ToSlash(rel),
			Content: normalizeNewlines(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// ReadFile extracts the text of a single document, dispatching on extension.
func ReadFile(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".pptx":
		return parsePPTX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	case ".xlsm", ".xltx":
		return parseExcelize(filePath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

func parsePDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, strings.TrimSpace(pageText))
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// parseDOCX turns the document XML into text with one paragraph per block.
func parseDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

func parsePPTX(filePath string) (string, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var slides []*zip.File
	for _, file := range f.File {
		if slideNumRe.MatchString(file.Name) && strings.HasPrefix(file.Name, "ppt/slides/slide") {
			slides = append(slides, file)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		a, b := slides[i].Name, slides[j].Name
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	var texts []string
	for _, file := range slides {
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(extractTextFromXML(string(data))); text != "" {
			texts = append(texts, html.UnescapeString(text))
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

func parseXLSX(filePath string) (string, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(fmt.Sprintf("## Sheet: %s\n\n", sheet.Name))
		for _, row := range sheet.Rows {
			var cells []string
			for _, cell := range row.Cells {
				if v := strings.TrimSpace(cell.String()); v != "" {
					cells = append(cells, v)
				}
			}
			if len(cells) > 0 {
				text.WriteString(strings.Join(cells, " | ") + "\n")
			}
		}
		text.WriteString("\n")
	}
	return text.String(), nil
}

func parseExcelize(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(fmt.Sprintf("## Sheet: %s\n\n", sheetName))
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if v := strings.TrimSpace(cell); v != "" {
					cells = append(cells, v)
				}
			}
			if len(cells) > 0 {
				text.WriteString(strings.Join(cells, " | ") + "\n")
			}
		}
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
