package extract

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// fakeExtractor is a canned TextExtractor strategy.
type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, string) (string, error) {
	return f.text, f.err
}

type panicExtractor struct{}

func (panicExtractor) Extract(context.Context, string) (string, error) {
	panic("corrupt parser state")
}

func testExtractor(strategy TextExtractor) *Extractor {
	return &Extractor{
		PDF:    strategy,
		DOCX:   strategy,
		XLSX:   strategy,
		Image:  strategy,
		Logger: slog.Default(),
	}
}

func TestExtractDocumentDataFullResult(t *testing.T) {
	text := "Título: Certidão Conjunta de Tributos Federais\n" +
		"CERTIDÃO NEGATIVA DE DÉBITOS relativos aos tributos e à regularidade fiscal, " +
		"emitida pela Receita Federal em 15/05/2025, válida até 11/11/2025. " +
		"Certidão nº 1234/2025, CNPJ 12.345.678/0001-95. Abrangência federal."

	e := testExtractor(fakeExtractor{text: text})
	res := e.ExtractDocumentData(context.Background(), "/uploads/certidao-federal.pdf")

	if res.Type != constants.TypeCertidao {
		t.Fatalf("Type = %q; want certidao", res.Type)
	}
	if res.CategoryID != "fiscal" {
		t.Errorf("CategoryID = %q; want fiscal", res.CategoryID)
	}
	if res.Name != "Certidão Conjunta de Tributos Federais" {
		t.Errorf("Name = %q; want the labeled title", res.Name)
	}
	if len(res.Tags) == 0 || res.Tags[0] != "certidao" {
		t.Errorf("Tags = %v; want type tag first", res.Tags)
	}
	md := res.Metadata
	if md.IssueDate == nil || md.ExpirationDate == nil {
		t.Fatalf("dates missing: %+v", md)
	}
	if !md.ExpirationDate.After(*md.IssueDate) {
		t.Errorf("expiration %v not after issue %v", md.ExpirationDate, md.IssueDate)
	}
	if md.CNPJ != "12.345.678/0001-95" {
		t.Errorf("CNPJ = %q", md.CNPJ)
	}
	if md.DocumentNumber != "1234/2025" {
		t.Errorf("DocumentNumber = %q", md.DocumentNumber)
	}
	if md.Issuer == "" {
		t.Error("Issuer missing")
	}
}

func TestExtractDocumentDataUnsupportedFormat(t *testing.T) {
	e := testExtractor(fakeExtractor{text: "irrelevant"})
	res := e.ExtractDocumentData(context.Background(), "notas.txt")

	if !res.Metadata.IsEmpty() {
		t.Errorf("Metadata = %+v; want empty on unsupported format", res.Metadata)
	}
	if res.Name != "" || len(res.Tags) != 0 {
		t.Errorf("unexpected enrichment on unsupported format: %+v", res)
	}
}

func TestExtractDocumentDataStrategyFailure(t *testing.T) {
	e := testExtractor(fakeExtractor{err: errors.New("corrupt file")})
	res := e.ExtractDocumentData(context.Background(), "/uploads/broken.pdf")

	// Strategy failure degrades to empty text: classified outro, filename
	// as name, no metadata — never an error to the caller.
	if res.Type != constants.TypeOutro {
		t.Errorf("Type = %q; want outro", res.Type)
	}
	if res.Name != "broken.pdf" {
		t.Errorf("Name = %q; want filename fallback", res.Name)
	}
	if !res.Metadata.IsEmpty() {
		t.Errorf("Metadata = %+v; want empty", res.Metadata)
	}
	if len(res.Tags) != 1 || res.Tags[0] != "outro" {
		t.Errorf("Tags = %v; want [outro]", res.Tags)
	}
}

func TestExtractDocumentDataPanicFallback(t *testing.T) {
	e := testExtractor(panicExtractor{})
	res := e.ExtractDocumentData(context.Background(), "/uploads/evil.xlsx")

	if !res.Metadata.IsEmpty() {
		t.Errorf("Metadata = %+v; want empty after panic", res.Metadata)
	}
}

func TestExtractDocumentDataIdempotent(t *testing.T) {
	text := "ATESTADO DE CAPACIDADE TÉCNICA para fornecimento de serviços"
	e := testExtractor(fakeExtractor{text: text})

	first := e.ExtractDocumentData(context.Background(), "atestado.docx")
	for i := 0; i < 3; i++ {
		res := e.ExtractDocumentData(context.Background(), "atestado.docx")
		if res.Type != first.Type || res.CategoryID != first.CategoryID {
			t.Fatalf("run %d: classification drifted: %+v vs %+v", i, res, first)
		}
		if len(res.Tags) != len(first.Tags) {
			t.Fatalf("run %d: tag list drifted: %v vs %v", i, res.Tags, first.Tags)
		}
	}
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback string
		want     string
	}{
		{
			name:     "labeled title",
			text:     "Referente a: Edital de Licitação 42/2025\ncorpo do documento",
			fallback: "upload.pdf",
			want:     "Edital de Licitação 42/2025",
		},
		{
			name:     "no label falls back to filename",
			text:     "corpo do documento sem título",
			fallback: "upload.pdf",
			want:     "upload.pdf",
		},
		{
			name:     "label too short falls back",
			text:     "Nome: ab",
			fallback: "upload.pdf",
			want:     "upload.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentName(tt.text, tt.fallback); got != tt.want {
				t.Errorf("DocumentName = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	short := "  descrição curta  "
	if got := Description(short); got != "descrição curta" {
		t.Errorf("Description(short) = %q", got)
	}

	long := strings.Repeat("texto longo ", 40)
	got := Description(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long description %q missing ellipsis", got)
	}
	if n := len([]rune(got)); n > 200 {
		t.Errorf("description length = %d runes; want <= 200", n)
	}
}
