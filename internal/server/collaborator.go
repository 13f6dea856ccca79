package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/repository"
)

const defaultLinkTTL = 7 * 24 * time.Hour

type createLinkRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	DocumentType   string `json:"documentType,omitempty"`
	Message        string `json:"message,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	ManualApproval bool   `json:"manualApproval"`
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, common.NewAppError("BAD_LINK", "name and email are required", common.ErrInvalidInput))
		return
	}

	expiration := time.Now().Add(defaultLinkTTL)
	if req.ExpirationDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpirationDate)
		if err != nil {
			writeError(w, common.NewAppError("BAD_DATE", "expirationDate must be YYYY-MM-DD", common.ErrInvalidInput))
			return
		}
		if t.Before(time.Now()) {
			writeError(w, common.NewAppError("BAD_DATE", "expirationDate is in the past", common.ErrInvalidInput))
			return
		}
		expiration = t
	}

	link := &repository.CollaboratorLink{
		UserID:            UserID(r),
		CollaboratorName:  req.Name,
		CollaboratorEmail: req.Email,
		DocumentType:      req.DocumentType,
		Message:           req.Message,
		ExpirationDate:    expiration,
		ManualApproval:    req.ManualApproval,
	}
	if err := s.links.Create(r.Context(), link); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// handleValidateLink is the public entry a collaborator hits before
// uploading. Expired links are transitioned lazily here.
func (s *Server) handleValidateLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.usableLink(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         link.CollaboratorName,
		"documentType": link.DocumentType,
		"message":      link.Message,
		"expiresAt":    link.ExpirationDate,
	})
}

// handleLinkUpload receives a document from an unauthenticated collaborator
// and files it under the link owner's account.
func (s *Server) handleLinkUpload(w http.ResponseWriter, r *http.Request) {
	link, err := s.usableLink(r)
	if err != nil {
		writeError(w, err)
		return
	}

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

	resp, err := s.ingestUpload(r, link.UserID, file, header, uploadOverrides{})
	if err != nil {
		writeError(w, err)
		return
	}

	if link.ManualApproval {
		pending := constants.StatusPending
		if doc, err := s.documents.Update(r.Context(), resp.Document.ID,
			repository.DocumentUpdate{Status: &pending}); err == nil {
			resp.Document = doc
		} else {
			s.logger.Warn("mark pending failed", "document_id", resp.Document.ID, "error", err)
		}
	}
	if err := s.links.AppendDocument(r.Context(), link.Token, resp.Document.ID); err != nil {
		s.logger.Warn("append link document failed", "token", link.Token, "error", err)
	}
	// Links are single-use: the first uploaded document consumes the link.
	if len(link.DocumentsUploaded) == 0 {
		if err := s.links.SetStatus(r.Context(), link.Token, repository.LinkStatusUsed); err != nil {
			s.logger.Warn("mark link used failed", "token", link.Token, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.links.ListByUser(r.Context(), UserID(r), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	if links == nil {
		links = []*repository.CollaboratorLink{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

// handleGetLink is the owner-side detail view: the link plus the documents
// uploaded through it.
func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.ownedLink(r)
	if err != nil {
		writeError(w, err)
		return
	}
	docs := make([]*repository.Document, 0, len(link.DocumentsUploaded))
	for _, id := range link.DocumentsUploaded {
		doc, err := s.documents.GetByID(r.Context(), id)
		if err != nil {
			s.logger.Warn("load link document failed", "token", link.Token, "document_id", id, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	writeJSON(w, http.StatusOK, map[string]any{"link": link, "documents": docs})
}

// handleRevokeLink lets the owner kill a link early by forcing it expired.
func (s *Server) handleRevokeLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.ownedLink(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.links.SetStatus(r.Context(), link.Token, repository.LinkStatusExpired); err != nil {
		writeError(w, err)
		return
	}
	link.Status = repository.LinkStatusExpired
	writeJSON(w, http.StatusOK, link)
}

// ownedLink loads the path link and enforces ownership. A foreign link
// reads as not found so tokens cannot be enumerated.
func (s *Server) ownedLink(r *http.Request) (*repository.CollaboratorLink, error) {
	link, err := s.links.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		return nil, err
	}
	if link.UserID != UserID(r) {
		return nil, common.ErrNotFound
	}
	return link, nil
}

func (s *Server) usableLink(r *http.Request) (*repository.CollaboratorLink, error) {
	token := chi.URLParam(r, "token")
	link, err := s.links.GetByToken(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if link.Status == repository.LinkStatusActive && time.Now().After(link.ExpirationDate) {
		if err := s.links.SetStatus(r.Context(), token, repository.LinkStatusExpired); err != nil {
			s.logger.Warn("expire link failed", "token", token, "error", err)
		}
		link.Status = repository.LinkStatusExpired
	}
	if link.Status != repository.LinkStatusActive {
		return nil, common.NewAppError("LINK_"+linkStatusCode(link.Status),
			"this upload link is no longer active", common.ErrUnauthorized)
	}
	return link, nil
}

func linkStatusCode(status string) string {
	switch status {
	case repository.LinkStatusExpired:
		return "EXPIRED"
	case repository.LinkStatusUsed:
		return "USED"
	default:
		return "INACTIVE"
	}
}
