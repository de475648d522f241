package rendering

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzExtractor extracts text from PDF documents using MuPDF.
type FitzExtractor struct{}

// NewFitzExtractor creates a FitzExtractor.
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// ExtractText returns the concatenated text of every page in the
// document. Image-only pages contribute nothing, so an empty string is
// valid output for scanned receipts.
func (e *FitzExtractor) ExtractText(pdfData []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var text strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		pageText, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", page, err)
		}
		text.WriteString(pageText)
	}

	return text.String(), nil
}
