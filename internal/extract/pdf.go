package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dslipak/pdf"
)

// PDFExtractor reads the embedded text layout of a PDF. It does not OCR
// scanned PDFs; those yield empty or near-empty text.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return b.String(), err
		}
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("pdf page extraction failed", "path", path, "page", i, "error", err)
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
