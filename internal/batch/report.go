package batch

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Documentos"

var reportHeaders = []string{
	"Arquivo",
	"Nome",
	"Tipo",
	"Categoria",
	"Data de Emissão",
	"Data de Validade",
	"CNPJ",
	"Emissor",
	"Valor da Proposta",
	"Tags",
}

// WriteReportXLSX renders the records as an XLSX workbook, one row per
// document.
func WriteReportXLSX(records []Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(reportSheet); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(reportSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	f.DeleteSheet("Sheet1")

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, rec := range records {
		md := rec.Result.Metadata
		values := []any{
			rec.Path,
			rec.Result.Name,
			string(rec.Result.Type),
			rec.Result.CategoryID,
			dateCell(md.IssueDate),
			dateCell(md.ExpirationDate),
			md.CNPJ,
			md.Issuer,
			moneyCell(md.ProposalValue),
			strings.Join(rec.Result.Tags, ", "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func moneyCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
