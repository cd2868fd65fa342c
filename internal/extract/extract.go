// Package extract converts uploaded resume documents into plain text for
// analysis. PDF and DOCX bodies are unpacked in memory; everything else is
// treated as UTF-8 text.
package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"atscan/internal/errors"

	"github.com/ledongthuc/pdf"
)

// Extractor validates and converts resume files into plain text.
type Extractor struct {
	maxFileSize  int64
	allowedTypes []string
	logger       *errors.Logger
}

// New creates an Extractor. maxFileSize of 0 disables the size check and an
// empty allowedTypes list accepts every extension.
func New(maxFileSize int64, allowedTypes []string, logger *errors.Logger) *Extractor {
	normalized := make([]string, len(allowedTypes))
	for i, t := range allowedTypes {
		normalized[i] = strings.ToLower(t)
	}
	return &Extractor{
		maxFileSize:  maxFileSize,
		allowedTypes: normalized,
		logger:       logger,
	}
}

// FromFile reads a file from disk and extracts its text content.
func (e *Extractor) FromFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("file does not exist: %s", path), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}
	if err := e.checkSize(info.Size(), path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read file: %s", path), err)
	}
	return e.FromBytes(filepath.Base(path), data)
}

// FromBytes extracts text from an in-memory document. The filename is only
// used to pick the decoder by extension.
func (e *Extractor) FromBytes(filename string, data []byte) (string, error) {
	if err := e.checkSize(int64(len(data)), filename); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(e.allowedTypes) > 0 && !slices.Contains(e.allowedTypes, ext) {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("unsupported file type %q (allowed: %s)", ext, strings.Join(e.allowedTypes, ", ")), nil)
	}

	if e.logger != nil {
		e.logger.Debug("Extracting document text",
			"filename", filename,
			"extension", ext,
			"size_bytes", len(data))
	}

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	default:
		text = string(data)
	}
	if err != nil {
		if e.logger != nil {
			e.logger.LogError(err, "Document extraction failed", "filename", filename)
		}
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("failed to extract text from %s", filename), err)
	}

	return normalizeWhitespace(text), nil
}

func (e *Extractor) checkSize(size int64, name string) error {
	if e.maxFileSize > 0 && size > e.maxFileSize {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("file %s exceeds the %d byte limit", name, e.maxFileSize), nil)
	}
	return nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("copy pdf text: %w", err)
	}
	return buf.String(), nil
}

var docxTagRe = regexp.MustCompile(`<[^>]+>`)

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("open document.xml: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			closeErr := rc.Close()
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			if closeErr != nil {
				return "", fmt.Errorf("close document.xml: %w", closeErr)
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("no document.xml found in docx archive")
	}

	// Paragraph and tab markers become whitespace before tags are stripped,
	// so line structure survives for the section detector.
	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	return docxTagRe.ReplaceAllString(xml, " "), nil
}

var (
	horizontalWS = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRuns  = regexp.MustCompile(`\n{3,}`)
)

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = horizontalWS.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

