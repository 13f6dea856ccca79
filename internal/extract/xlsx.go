package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetHeaderPrefix labels each sheet's block in the concatenated output.
const SheetHeaderPrefix = "Planilha: "

// CellSeparator joins row cells. The columnar layout is preserved so the
// downstream money/date regexes still find values inside tabular text.
const CellSeparator = " | "

// XLSXExtractor concatenates every sheet's cells into searchable text.
type XLSXExtractor struct {
	logger *slog.Logger
}

func NewXLSXExtractor(logger *slog.Logger) *XLSXExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExtractor{logger: logger}
}

func (e *XLSXExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("close workbook", "path", path, "error", cerr)
		}
	}()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return b.String(), err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			e.logger.Warn("read sheet failed", "path", path, "sheet", sheet, "error", err)
			continue
		}
		b.WriteString(SheetHeaderPrefix)
		b.WriteString(sheet)
		b.WriteString("\n")
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			b.WriteString(strings.Join(row, CellSeparator))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
