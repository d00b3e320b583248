package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"hirevet/pkg/utils"
)

// ErrNoText signals a structurally valid PDF that yielded no text at all,
// typically a scanned document without an OCR layer.
var ErrNoText = errors.New("no extractable text in PDF")

// Extractor pulls plain text out of PDF resumes
type Extractor struct {
	logger *logrus.Logger
}

// NewExtractor creates a new PDF text extractor
func NewExtractor() *Extractor {
	return &Extractor{
		logger: utils.GetLogger(),
	}
}

// ExtractFile reads every page of the PDF at path and joins the page texts
// with newlines. Unreadable pages are skipped rather than failing the whole
// document. The underlying parser panics on some malformed files, so the
// pass runs under a recover.
func (e *Extractor) ExtractFile(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parser failure: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			e.logger.WithFields(logrus.Fields{
				"page": i,
				"path": path,
			}).WithError(pageErr).Warn("Skipping unreadable PDF page")
			continue
		}

		pages = append(pages, content)
	}

	text = strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", ErrNoText
	}

	e.logger.WithFields(logrus.Fields{
		"path":  path,
		"pages": totalPages,
		"chars": len(text),
	}).Debug("Extracted text from PDF")

	return text, nil
}
