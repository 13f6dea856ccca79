// Package server exposes the HTTP API: authentication, document upload with
// automatic data extraction, document CRUD, and collaborator upload links.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
	"github.com/gerenciadoc/gerenciadoc/internal/repository"
	"github.com/gerenciadoc/gerenciadoc/internal/storage"
)

// Pipeline is the extraction entry point the upload handlers call.
// *extract.Extractor satisfies it; tests substitute fakes.
type Pipeline interface {
	ExtractDocumentData(ctx context.Context, path string) extract.Result
}

type Server struct {
	cfg    *common.Config
	logger *slog.Logger

	users      repository.UserRepository
	categories repository.CategoryRepository
	documents  repository.DocumentRepository
	links      repository.LinkRepository
	store      storage.Store
	pipeline   Pipeline

	http *http.Server
}

type Deps struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Documents  repository.DocumentRepository
	Links      repository.LinkRepository
	Store      storage.Store
	Pipeline   Pipeline
}

func New(cfg *common.Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		users:      deps.Users,
		categories: deps.Categories,
		documents:  deps.Documents,
		links:      deps.Links,
		store:      deps.Store,
		pipeline:   deps.Pipeline,
	}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Routes assembles the router. Exported so tests can drive the full stack
// through httptest without binding a port.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(RateLimit(s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Public collaborator surface, reachable by token only.
		r.Get("/collaborator/upload/{token}", s.handleValidateLink)
		r.Post("/collaborator/upload/{token}", s.handleLinkUpload)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.cfg.Auth))

			r.Get("/auth/me", s.handleMe)
			r.Get("/categories", s.handleListCategories)

			r.Post("/documents/upload", s.handleUpload)
			r.Post("/documents/upload/batch", s.handleBatchUpload)
			r.Get("/documents", s.handleListDocuments)
			r.Get("/documents/{id}", s.handleGetDocument)
			r.Put("/documents/{id}", s.handleUpdateDocument)
			r.Delete("/documents/{id}", s.handleDeleteDocument)

			r.Post("/collaborator/links", s.handleCreateLink)
			r.Get("/collaborator/links", s.handleListLinks)
			r.Get("/collaborator/links/{token}", s.handleGetLink)
			r.Post("/collaborator/links/{token}/revoke", s.handleRevokeLink)
		})
	})

	r.Get("/files/{key}", s.handleServeFile)
	return r
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
