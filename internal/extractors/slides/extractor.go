// Package slides extracts text from OOXML presentation decks.
package slides

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles presentation decks.
type Extractor struct{}

// New creates a presentation extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeSlides}
}

// Extract collects the text runs of every slide in deck order, one
// "Slide N:" block per slide.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open presentation archive: %w", err)
	}

	slideFiles := make([]*zip.File, 0, len(reader.File))
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slideFiles = append(slideFiles, f)
		}
	}
	sort.Slice(slideFiles, func(i, j int) bool {
		return slideNumber(slideFiles[i].Name) < slideNumber(slideFiles[j].Name)
	})

	var result strings.Builder
	for i, f := range slideFiles {
		text, err := slideText(f)
		if err != nil {
			return "", err
		}
		if text == "" {
			continue
		}
		result.WriteString(fmt.Sprintf("Slide %d:\n%s\n", i+1, text))
	}

	return strings.TrimSpace(result.String()), nil
}

// slideNumber parses the numeric suffix of ppt/slides/slideN.xml.
func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	n, _ := strconv.Atoi(name)
	return n
}

// slideText streams one slide's XML and collects the chardata of
// every <a:t> text run. A full schema mapping is not worth carrying
// for search extraction.
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	var lines []string
	inTextRun := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", f.Name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inTextRun = false
			}
		case xml.CharData:
			if inTextRun {
				if text := strings.TrimSpace(string(t)); text != "" {
					lines = append(lines, text)
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
