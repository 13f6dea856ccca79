package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testScanner() *Scanner {
	return NewScanner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "certidao.pdf")
	writeFile(t, path, "conteudo do documento")

	entry, err := testScanner().ScanFile(t.Context(), path)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if entry.Ext != "pdf" {
		t.Errorf("ext = %q, want pdf", entry.Ext)
	}
	if entry.Size != int64(len("conteudo do documento")) {
		t.Errorf("size = %d", entry.Size)
	}
	if len(entry.HashHex) != 64 {
		t.Errorf("hash = %q, want 64 hex chars", entry.HashHex)
	}
}

func TestScanFileRejectsUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notas.txt")
	writeFile(t, path, "x")

	if _, err := testScanner().ScanFile(t.Context(), path); err == nil {
		t.Fatal("ScanFile accepted a .txt file")
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.pdf"), "conteudo-a")
	writeFile(t, filepath.Join(dir, "sub", "b.docx"), "conteudo-b")
	writeFile(t, filepath.Join(dir, "sub", "copia.pdf"), "conteudo-a") // duplicate of a.pdf
	writeFile(t, filepath.Join(dir, "leia-me.txt"), "ignorado")
	writeFile(t, filepath.Join(dir, ".oculto", "c.pdf"), "escondido")

	entries, stats, err := testScanner().ScanDirectory(t.Context(), dir, true)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if stats.Matched != 3 || stats.Succeeded != 2 || stats.Deduplicated != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestScanDirectoryVisitsHiddenWhenAsked(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".oculto", "c.pdf"), "escondido")

	entries, _, err := testScanner().ScanDirectory(t.Context(), dir, false)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	if _, _, err := testScanner().ScanDirectory(t.Context(), "  ", true); err == nil {
		t.Fatal("ScanDirectory accepted an empty root")
	}
}
