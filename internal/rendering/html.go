package rendering

import (
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WKRenderer renders HTML email bodies to PDF through the wkhtmltopdf
// binary. It is only used for record-keeping artifacts, never on the
// extraction path.
type WKRenderer struct{}

// NewWKRenderer creates a WKRenderer. The wkhtmltopdf binary must be on
// PATH; rendering fails at call time otherwise.
func NewWKRenderer() *WKRenderer {
	return &WKRenderer{}
}

// Render converts an HTML document to PDF bytes.
func (r *WKRenderer) Render(html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("creating pdf generator: %w", err)
	}

	pdfg.AddPage(wkhtmltopdf.NewPageReader(strings.NewReader(html)))
	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}

	return pdfg.Bytes(), nil
}
