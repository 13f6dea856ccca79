package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// OCRConfig configures the tesseract invocation.
type OCRConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "por"
	TessdataDir string
	PSM         int // page segmentation mode; 0 = tesseract default
}

// OCRExtractor runs optical character recognition on an image. The worker
// (tesseract process plus its output artifacts) is acquired per call and
// released on every path; nothing is reused across calls.
type OCRExtractor struct {
	cfg    OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewOCRExtractor(cfg OCRConfig, logger *slog.Logger) *OCRExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "por"
	}
	return &OCRExtractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (e *OCRExtractor) Extract(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "gdoc-ocr-*")
	if err != nil {
		return "", fmt.Errorf("ocr workspace: %w", err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("remove ocr workspace", "dir", tmpDir, "error", rerr)
		}
	}()

	outBase := filepath.Join(tmpDir, "out")
	args := []string{path, outBase, "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> <outbase> -l por
	if _, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...); err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}

	raw, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("read ocr output: %w", err)
	}
	return Normalize(string(raw)), nil
}
