// Package excel extracts text from OOXML spreadsheet workbooks.
// Every row is linearised with " | " cell separators so tabular data
// stays searchable as plain text.
package excel

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

// Extractor handles spreadsheet workbooks.
type Extractor struct{}

// New creates a spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeExcel}
}

// Extract linearises every sheet: a "Sheet: name" header followed by
// one line per row, cells joined with " | ". Legacy binary .xls files
// fail the ZIP open and degrade.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open workbook archive: %w", err)
	}

	shared, err := readSharedStrings(reader)
	if err != nil {
		return "", err
	}
	names := readSheetNames(reader)

	sheetFiles := make([]*zip.File, 0, len(reader.File))
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheetFiles = append(sheetFiles, f)
		}
	}
	sort.Slice(sheetFiles, func(i, j int) bool {
		return sheetNumber(sheetFiles[i].Name) < sheetNumber(sheetFiles[j].Name)
	})

	var result strings.Builder
	for i, f := range sheetFiles {
		name := fmt.Sprintf("Sheet%d", i+1)
		if i < len(names) {
			name = names[i]
		}

		rows, err := readSheetRows(f, shared)
		if err != nil {
			return "", err
		}

		result.WriteString("Sheet: " + name + "\n")
		for _, row := range rows {
			result.WriteString(row)
			result.WriteString("\n")
		}
	}

	return strings.TrimSpace(result.String()), nil
}

// sheetNumber parses the numeric suffix of xl/worksheets/sheetN.xml.
func sheetNumber(name string) int {
	name = strings.TrimPrefix(name, "xl/worksheets/sheet")
	name = strings.TrimSuffix(name, ".xml")
	n, _ := strconv.Atoi(name)
	return n
}

// workbookXML mirrors the sheet listing of xl/workbook.xml.
type workbookXML struct {
	Sheets struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

// readSheetNames returns the declared sheet names in workbook order.
func readSheetNames(reader *zip.Reader) []string {
	content, err := readZipFile(reader, "xl/workbook.xml")
	if err != nil {
		return nil
	}
	var wb workbookXML
	if err := xml.Unmarshal(content, &wb); err != nil {
		return nil
	}
	names := make([]string, 0, len(wb.Sheets.Sheets))
	for _, s := range wb.Sheets.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// sstXML mirrors xl/sharedStrings.xml. Each string item may be a
// single <t> or a sequence of styled runs.
type sstXML struct {
	Items []struct {
		Text string `xml:"t"`
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

// readSharedStrings loads the shared string table, if present.
func readSharedStrings(reader *zip.Reader) ([]string, error) {
	content, err := readZipFile(reader, "xl/sharedStrings.xml")
	if err != nil {
		return nil, nil // optional part
	}
	var sst sstXML
	if err := xml.Unmarshal(content, &sst); err != nil {
		return nil, fmt.Errorf("parse sharedStrings.xml: %w", err)
	}
	strs := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if len(item.Runs) > 0 {
			var b strings.Builder
			for _, r := range item.Runs {
				b.WriteString(r.Text)
			}
			strs[i] = b.String()
			continue
		}
		strs[i] = item.Text
	}
	return strs, nil
}

// sheetXML mirrors the row data of one worksheet.
type sheetXML struct {
	SheetData struct {
		Rows []struct {
			Cells []cellXML `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

type cellXML struct {
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline struct {
		Text string `xml:"t"`
	} `xml:"is"`
}

// readSheetRows linearises one worksheet into row strings, skipping
// rows that carry no text at all.
func readSheetRows(f *zip.File, shared []string) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}

	var sheet sheetXML
	if err := xml.Unmarshal(content, &sheet); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}

	rows := make([]string, 0, len(sheet.SheetData.Rows))
	for _, row := range sheet.SheetData.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			if v := cellValue(c, shared); v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	}
	return rows, nil
}

// cellValue resolves one cell to its display text.
func cellValue(c cellXML, shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return strings.TrimSpace(shared[idx])
	case "inlineStr":
		return strings.TrimSpace(c.Inline.Text)
	default:
		return strings.TrimSpace(c.Value)
	}
}

// readZipFile reads one named entry from the archive.
func readZipFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s missing from archive", name)
}
