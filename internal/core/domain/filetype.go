package domain

import (
	"path/filepath"
	"strings"
)

// FileType identifies the declared document format for extractor dispatch.
type FileType string

// Supported file types.
const (
	// FileTypePDF is a PDF document.
	FileTypePDF FileType = "pdf"

	// FileTypeWord is a word-processor document (OOXML .docx or legacy .doc).
	FileTypeWord FileType = "word"

	// FileTypeExcel is a spreadsheet workbook.
	FileTypeExcel FileType = "excel"

	// FileTypeSlides is a presentation deck.
	FileTypeSlides FileType = "slides"

	// FileTypeText is plain text or Markdown.
	FileTypeText FileType = "text"

	// FileTypeUnknown is anything the registry cannot dispatch.
	FileTypeUnknown FileType = "unknown"
)

// IsValid returns true if the file type is recognised.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypePDF, FileTypeWord, FileTypeExcel, FileTypeSlides, FileTypeText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FileType) String() string {
	return string(t)
}

// extensionTypes maps file extensions to declared types.
var extensionTypes = map[string]FileType{
	".pdf":  FileTypePDF,
	".docx": FileTypeWord,
	".doc":  FileTypeWord,
	".xlsx": FileTypeExcel,
	".xls":  FileTypeExcel,
	".pptx": FileTypeSlides,
	".txt":  FileTypeText,
	".md":   FileTypeText,
	".csv":  FileTypeText,
}

// mimeTypes maps declared MIME types to file types.
var mimeTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   FileTypeWord,
	"application/msword": FileTypeWord,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         FileTypeExcel,
	"application/vnd.ms-excel": FileTypeExcel,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": FileTypeSlides,
	"text/plain":    FileTypeText,
	"text/markdown": FileTypeText,
	"text/csv":      FileTypeText,
}

// DetectFileType resolves the declared MIME type or filename extension
// to a FileType. The declared type wins over the extension.
func DetectFileType(declared, filename string) FileType {
	if declared != "" {
		// Strip any ";charset=..." suffix.
		if i := strings.IndexByte(declared, ';'); i >= 0 {
			declared = declared[:i]
		}
		declared = strings.TrimSpace(strings.ToLower(declared))
		if t, ok := mimeTypes[declared]; ok {
			return t
		}
		// Callers sometimes declare the bare extension.
		if t, ok := extensionTypes["."+strings.TrimPrefix(declared, ".")]; ok {
			return t
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return FileTypeUnknown
}
