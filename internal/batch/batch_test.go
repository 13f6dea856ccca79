package batch

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
)

func sampleRecord(path, hash string) Record {
	issue := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	value := 120000.0
	return Record{
		Path:    path,
		HashHex: hash,
		Result: extract.Result{
			Name:        "Certidão Negativa de Débitos",
			Description: "Certidão negativa de débitos federais.",
			Type:        constants.TypeCertidao,
			CategoryID:  "fiscal",
			Metadata: extract.Metadata{
				IssueDate:     &issue,
				CNPJ:          "12.345.678/0001-90",
				Issuer:        "Receita Federal",
				ProposalValue: &value,
			},
			Tags: []string{"certidao", "federal"},
		},
		ExtractedAt: time.Now().UTC(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(t.Context(), filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	if err := store.SaveResult(t.Context(), sampleRecord("/docs/a.pdf", "hash-a")); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if err := store.SaveResult(t.Context(), sampleRecord("/docs/b.pdf", "hash-b")); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	records, err := store.ListResults(t.Context())
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	got := records[0]
	if got.Path != "/docs/a.pdf" || got.Result.Type != constants.TypeCertidao {
		t.Errorf("record = %+v", got)
	}
	if got.Result.Metadata.CNPJ != "12.345.678/0001-90" {
		t.Errorf("metadata cnpj = %q", got.Result.Metadata.CNPJ)
	}
	if got.Result.Metadata.IssueDate == nil {
		t.Error("issue date lost in round trip")
	}
	if len(got.Result.Tags) != 2 {
		t.Errorf("tags = %v", got.Result.Tags)
	}
}

func TestStoreUpsertsByHash(t *testing.T) {
	store, err := OpenStore(t.Context(), filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	rec := sampleRecord("/docs/a.pdf", "hash-a")
	if err := store.SaveResult(t.Context(), rec); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	rec.Result.Name = "Nome Atualizado"
	if err := store.SaveResult(t.Context(), rec); err != nil {
		t.Fatalf("SaveResult (update): %v", err)
	}

	records, err := store.ListResults(t.Context())
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Result.Name != "Nome Atualizado" {
		t.Errorf("name = %q, want updated value", records[0].Result.Name)
	}
}

func TestWriteReportXLSX(t *testing.T) {
	data, err := WriteReportXLSX([]Record{sampleRecord("/docs/a.pdf", "hash-a")})
	if err != nil {
		t.Fatalf("WriteReportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "Arquivo" || rows[0][2] != "Tipo" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][2] != "certidao" || rows[1][4] != "10/03/2025" {
		t.Errorf("data row = %v", rows[1])
	}
}
