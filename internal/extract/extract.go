// Package extract pulls plain text out of uploaded documents. All
// parsing happens in memory; uploaded content is never written to disk.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/chunker"
	"github.com/simplylegal/simplylegal/internal/logger"
)

// MaxUploadBytes caps the raw size of an uploaded file.
const MaxUploadBytes = 10 << 20

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
}

// Document is the text pulled out of one uploaded file.
type Document struct {
	Text      string `json:"text"`
	Filename  string `json:"filename"`
	FileType  string `json:"file_type"`
	CharCount int    `json:"char_count"`
}

// FromUpload extracts plain text from an uploaded file, dispatching on
// the filename extension.
func FromUpload(filename string, data []byte) (Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return Document{}, apperrors.New(apperrors.KindUnsupportedMedia,
			fmt.Sprintf("Unsupported file type %q. Allowed: .txt, .pdf, .docx", ext), nil)
	}
	if len(data) == 0 {
		return Document{}, apperrors.InvalidInput("Uploaded file is empty.")
	}
	if len(data) > MaxUploadBytes {
		return Document{}, apperrors.New(apperrors.KindTooLarge,
			fmt.Sprintf("File too large (%d KB). Maximum is 10 MB.", len(data)/1024), nil)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text = strings.ToValidUTF8(string(data), "�")
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	}
	if err != nil {
		logger.Error("Text extraction failed", "filename", filepath.Base(filename), "file_type", ext, "error", err)
		return Document{}, apperrors.New(apperrors.KindUnprocessable,
			fmt.Sprintf("Could not extract text from file: %v", err), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Document{}, apperrors.New(apperrors.KindUnprocessable,
			"No text could be extracted from the file.", nil)
	}

	logger.Info("Text extracted", "filename", filepath.Base(filename), "file_type", ext, "char_count", chunker.Size(text))
	return Document{
		Text:      text,
		Filename:  filename,
		FileType:  ext,
		CharCount: chunker.Size(text),
	}, nil
}
