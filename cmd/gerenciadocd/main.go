package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
	"github.com/gerenciadoc/gerenciadoc/internal/repository"
	"github.com/gerenciadoc/gerenciadoc/internal/server"
	"github.com/gerenciadoc/gerenciadoc/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	categories := repository.NewCategoryRepository(pool, logger)
	if err := categories.EnsureDefaults(ctx); err != nil {
		logger.Error("category seed failed", "error", err)
		os.Exit(1)
	}

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	pipeline := extract.NewExtractor(extract.OCRConfig{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	srv := server.New(cfg, server.Deps{
		Users:      repository.NewUserRepository(pool, logger),
		Categories: categories,
		Documents:  repository.NewDocumentRepository(pool, logger),
		Links:      repository.NewLinkRepository(pool, logger),
		Store:      store,
		Pipeline:   pipeline,
	}, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("stopped")
}

func buildStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "minio":
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("using minio storage", "endpoint", cfg.Storage.MinioEndpoint, "bucket", cfg.Storage.MinioBucket)
		return store, nil
	default:
		logger.Info("using disk storage", "dir", cfg.Storage.UploadDir)
		return storage.NewDiskStore(cfg.Storage.UploadDir)
	}
}
