package service

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInspector reads local facts about a PDF without remote calls
type PDFInspector struct {
	conf *model.Configuration
}

// NewPDFInspector creates a PDF inspector with relaxed validation
func NewPDFInspector() *PDFInspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFInspector{conf: conf}
}

// PageCount returns the number of pages in the given PDF bytes
func (p *PDFInspector) PageCount(content []byte) (int, error) {
	if len(content) == 0 {
		return 0, fmt.Errorf("empty PDF content")
	}
	n, err := api.PageCount(bytes.NewReader(content), p.conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return n, nil
}
