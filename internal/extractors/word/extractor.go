// Package word extracts text from word-processor documents.
// OOXML (.docx) archives are parsed directly; legacy binary .doc
// files fail the ZIP open and degrade, matching the behaviour of the
// upstream toolchain.
package word

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles word-processor documents.
type Extractor struct{}

// New creates a word document extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeWord}
}

// Extract pulls paragraph and table text out of word/document.xml.
// Table rows are linearised with " | " separators; tabular content
// carries disproportionate search value.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open document archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}

		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("document.xml missing from archive")
}

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// parseDocumentXML extracts paragraph text followed by linearised tables.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var result strings.Builder
	for _, para := range doc.Body.Paragraphs {
		if text := paragraphText(para); text != "" {
			result.WriteString(text)
			result.WriteString("\n")
		}
	}

	for i, tbl := range doc.Body.Tables {
		result.WriteString(fmt.Sprintf("Table %d:\n", i+1))
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var cellText strings.Builder
				for _, para := range cell.Paragraphs {
					cellText.WriteString(paragraphText(para))
				}
				cells = append(cells, strings.TrimSpace(cellText.String()))
			}
			rowText := strings.Join(cells, " | ")
			if strings.TrimSpace(strings.ReplaceAll(rowText, "|", "")) != "" {
				result.WriteString(rowText)
				result.WriteString("\n")
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}

// paragraphText concatenates the runs of one paragraph.
func paragraphText(para paragraph) string {
	var text strings.Builder
	for _, r := range para.Runs {
		for _, t := range r.Text {
			text.WriteString(t.Content)
		}
	}
	return strings.TrimSpace(text.String())
}
