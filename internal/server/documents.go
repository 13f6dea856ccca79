package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
	"github.com/gerenciadoc/gerenciadoc/internal/repository"
)

const (
	maxUploadBytes = 32 << 20
	maxBatchFiles  = 10
)

// uploadOverrides is the optional "data" part of an upload request. Any
// field the caller sets wins over the extracted value.
type uploadOverrides struct {
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Type           string   `json:"type,omitempty"`
	CategoryID     string   `json:"categoryId,omitempty"`
	IssueDate      string   `json:"issueDate,omitempty"`
	ExpirationDate string   `json:"expirationDate,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

type uploadResponse struct {
	Document  *repository.Document `json:"document"`
	Extracted extract.Result       `json:"extracted"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, common.NewAppError("BAD_UPLOAD", "invalid multipart request", common.ErrInvalidInput))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, common.NewAppError("NO_FILE", "file field is required", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	overrides, err := parseOverrides(r)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.ingestUpload(r, UserID(r), file, header, overrides)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

type batchItem struct {
	Filename string               `json:"filename"`
	Document *repository.Document `json:"document,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func (s *Server) handleBatchUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, common.NewAppError("BAD_UPLOAD", "invalid multipart request", common.ErrInvalidInput))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, common.NewAppError("NO_FILES", "files field is required", common.ErrInvalidInput))
		return
	}
	if len(files) > maxBatchFiles {
		writeError(w, common.NewAppError("TOO_MANY_FILES",
			fmt.Sprintf("at most %d files per batch", maxBatchFiles), common.ErrInvalidInput))
		return
	}

	// Batch uploads take no overrides: each file is classified on its own.
	items := make([]batchItem, 0, len(files))
	for _, header := range files {
		item := batchItem{Filename: header.Filename}
		f, err := header.Open()
		if err != nil {
			item.Error = "unreadable file"
			items = append(items, item)
			continue
		}
		resp, err := s.ingestUpload(r, UserID(r), f, header, uploadOverrides{})
		f.Close()
		if err != nil {
			s.logger.Warn("batch file failed", "filename", header.Filename, "error", err)
			item.Error = clientMessage(err)
		} else {
			item.Document = resp.Document
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"results": items})
}

// ingestUpload runs the shared upload path: extract, apply overrides,
// persist the file, persist the document.
func (s *Server) ingestUpload(r *http.Request, userID uuid.UUID, file multipart.File, header *multipart.FileHeader, ov uploadOverrides) (*uploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constants.AllowedExt(ext) {
		return nil, common.NewAppError("UNSUPPORTED_FORMAT",
			"unsupported file format: "+ext, common.ErrInvalidInput)
	}

	// Extraction reads from disk, so spool the upload to a temp file first.
	tmp, err := os.CreateTemp("", "gdoc-upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	defer os.Remove(tmp.Name())
	size, err := io.Copy(tmp, file)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	tmp.Close()

	res := s.pipeline.ExtractDocumentData(r.Context(), tmp.Name())
	doc := s.buildDocument(userID, header.Filename, res, ov)

	src, err := os.Open(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("reopen upload: %w", err)
	}
	defer src.Close()
	key, url, err := s.store.Save(r.Context(), header.Filename, src, size,
		header.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc.FileURL = url
	doc.FileSize = size
	doc.FileFormat = constants.NormalizeExt(ext)
	if err := s.documents.Create(r.Context(), doc); err != nil {
		s.store.Delete(r.Context(), key)
		return nil, err
	}
	return &uploadResponse{Document: doc, Extracted: res}, nil
}

// buildDocument merges the extraction result with caller overrides; the
// caller always wins.
func (s *Server) buildDocument(userID uuid.UUID, filename string, res extract.Result, ov uploadOverrides) *repository.Document {
	doc := &repository.Document{
		UserID:       userID,
		Name:         res.Name,
		Description:  res.Description,
		Type:         res.Type,
		CategorySlug: res.CategoryID,
		Metadata:     res.Metadata,
		Tags:         res.Tags,
	}
	if doc.Name == "" {
		doc.Name = filename
	}
	if doc.Type == "" {
		doc.Type = constants.TypeOutro
	}
	if doc.CategorySlug == "" {
		doc.CategorySlug = constants.CategoryOutros
	}
	doc.IssueDate = res.Metadata.IssueDate
	doc.ExpirationDate = res.Metadata.ExpirationDate

	if ov.Name != "" {
		doc.Name = ov.Name
	}
	if ov.Description != "" {
		doc.Description = ov.Description
	}
	if ov.Type != "" {
		doc.Type = constants.DocumentType(ov.Type)
		doc.CategorySlug = constants.CategoryFor(doc.Type)
	}
	if ov.CategoryID != "" {
		doc.CategorySlug = ov.CategoryID
	}
	if t, err := time.Parse("2006-01-02", ov.IssueDate); err == nil {
		doc.IssueDate = &t
	}
	if t, err := time.Parse("2006-01-02", ov.ExpirationDate); err == nil {
		doc.ExpirationDate = &t
	}
	if ov.Tags != nil {
		doc.Tags = ov.Tags
	}

	doc.Status = constants.StatusFor(doc.ExpirationDate, time.Now())
	return doc
}

func parseOverrides(r *http.Request) (uploadOverrides, error) {
	var ov uploadOverrides
	raw := r.FormValue("data")
	if raw == "" {
		return ov, nil
	}
	if err := validateOverrides([]byte(raw)); err != nil {
		return ov, err
	}
	if err := decodeJSONBytes([]byte(raw), &ov); err != nil {
		return ov, err
	}
	return ov, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.DocumentFilter{
		Category: q.Get("category"),
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
	}
	docs, err := s.documents.ListByUser(r.Context(), UserID(r), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []*repository.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ownedDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type updateDocumentRequest struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	CategoryID     *string           `json:"categoryId"`
	IssueDate      *string           `json:"issueDate"`
	ExpirationDate *string           `json:"expirationDate"`
	Metadata       *extract.Metadata `json:"metadata"`
	Tags           []string          `json:"tags"`
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ownedDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	upd := repository.DocumentUpdate{
		Name:        req.Name,
		Description: req.Description,
		Metadata:    req.Metadata,
		Tags:        req.Tags,
	}
	if req.CategoryID != nil {
		if _, err := s.categories.GetBySlug(r.Context(), *req.CategoryID); err != nil {
			writeError(w, common.NewAppError("BAD_CATEGORY", "unknown category", common.ErrInvalidInput))
			return
		}
		upd.CategorySlug = req.CategoryID
	}
	expiration := doc.ExpirationDate
	if req.IssueDate != nil {
		t, err := time.Parse("2006-01-02", *req.IssueDate)
		if err != nil {
			writeError(w, common.NewAppError("BAD_DATE", "issueDate must be YYYY-MM-DD", common.ErrInvalidInput))
			return
		}
		upd.IssueDate = &t
	}
	if req.ExpirationDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpirationDate)
		if err != nil {
			writeError(w, common.NewAppError("BAD_DATE", "expirationDate must be YYYY-MM-DD", common.ErrInvalidInput))
			return
		}
		upd.ExpirationDate = &t
		expiration = &t
	}

	// Expiry edits re-derive the status.
	status := constants.StatusFor(expiration, time.Now())
	if doc.Status != constants.StatusPending {
		upd.Status = &status
	}

	updated, err := s.documents.Update(r.Context(), doc.ID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ownedDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.documents.Delete(r.Context(), doc.ID); err != nil {
		writeError(w, err)
		return
	}
	if key := storedKey(doc.FileURL); key != "" {
		if err := s.store.Delete(r.Context(), key); err != nil {
			s.logger.Warn("delete stored file failed", "document_id", doc.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": doc.ID})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// handleServeFile streams a locally stored file. Only meaningful for the
// disk backend; minio documents carry presigned URLs instead.
func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	rc, err := s.store.Open(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("serve file interrupted", "key", key, "error", err)
	}
}

// ownedDocument loads the path document and enforces ownership. A foreign
// document reads as not found so IDs cannot be enumerated.
func (s *Server) ownedDocument(r *http.Request) (*repository.Document, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, common.NewAppError("BAD_ID", "invalid document id", common.ErrInvalidInput)
	}
	doc, err := s.documents.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != UserID(r) {
		return nil, common.ErrNotFound
	}
	return doc, nil
}

// storedKey recovers the object key from a disk-backend file URL.
func storedKey(fileURL string) string {
	if rest, ok := strings.CutPrefix(fileURL, "/files/"); ok {
		return rest
	}
	return ""
}
