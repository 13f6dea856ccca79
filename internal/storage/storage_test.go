package storage

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

func TestObjectKeyKeepsExtension(t *testing.T) {
	key := ObjectKey("Certidão Negativa.PDF")
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("key = %q, want .pdf suffix", key)
	}
	if key == ObjectKey("Certidão Negativa.PDF") {
		t.Error("two keys for the same filename collided")
	}
}

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	key, url, err := store.Save(t.Context(), "proposta.pdf", strings.NewReader("conteudo"), 8, "application/pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/files/"+key {
		t.Errorf("url = %q, want /files/%s", url, key)
	}

	rc, err := store.Open(t.Context(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(data) != "conteudo" {
		t.Errorf("read back = %q, err %v", data, err)
	}

	if err := store.Delete(t.Context(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(t.Context(), key); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("open after delete: err = %v, want not found", err)
	}
	// Deleting again is a no-op.
	if err := store.Delete(t.Context(), key); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	for _, key := range []string{"../segredo", filepath.Join("sub", "x.pdf")} {
		if _, err := store.Open(t.Context(), key); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("Open(%q) err = %v, want invalid input", key, err)
		}
		if err := store.Delete(t.Context(), key); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("Delete(%q) err = %v, want invalid input", key, err)
		}
	}
}

func TestDiskStoreRequiresRoot(t *testing.T) {
	if _, err := NewDiskStore(""); err == nil {
		t.Fatal("NewDiskStore accepted an empty root")
	}
}
