package extract

import (
	"errors"
	"testing"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

func TestIdentifyKind(t *testing.T) {
	tests := []struct {
		path string
		want constants.FileKind
	}{
		{"edital.pdf", constants.KindPDF},
		{"/tmp/uploads/Contrato.PDF", constants.KindPDF},
		{"atestado.doc", constants.KindDOCX},
		{"atestado.docx", constants.KindDOCX},
		{"planilha.xls", constants.KindXLSX},
		{"planilha.xlsx", constants.KindXLSX},
		{"certidao.jpg", constants.KindImage},
		{"certidao.JPEG", constants.KindImage},
		{"scan.png", constants.KindImage},
		{"scan.tiff", constants.KindImage},
		{"scan.bmp", constants.KindImage},
	}
	for _, tt := range tests {
		got, err := IdentifyKind(tt.path)
		if err != nil {
			t.Errorf("IdentifyKind(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("IdentifyKind(%q) = %q; want %q", tt.path, got, tt.want)
		}
	}
}

func TestIdentifyKindUnsupported(t *testing.T) {
	for _, path := range []string{"notas.txt", "arquivo", "video.mp4", "arquivo.pdf.gz"} {
		_, err := IdentifyKind(path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("IdentifyKind(%q) err = %v; want ErrUnsupportedFormat", path, err)
		}
	}
}
