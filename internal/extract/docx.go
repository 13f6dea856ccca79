package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lu4p/cat"
)

// DOCXExtractor pulls the unformatted run text out of a Word document.
// Table and image content is not extracted.
type DOCXExtractor struct {
	logger *slog.Logger
}

func NewDOCXExtractor(logger *slog.Logger) *DOCXExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DOCXExtractor{logger: logger}
}

func (e *DOCXExtractor) Extract(_ context.Context, path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("extract docx: %w", err)
	}
	return text, nil
}
