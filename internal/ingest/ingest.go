// Package ingest discovers document files on the local filesystem for
// batch extraction.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// FileEntry is one discovered document file.
type FileEntry struct {
	Path    string
	Ext     string
	Size    int64
	HashHex string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Scanner walks directories collecting supported files, hashing each so
// repeated content is reported once.
type Scanner struct {
	logger *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ScanFile stats and hashes a single path.
func (s *Scanner) ScanFile(ctx context.Context, path string) (FileEntry, error) {
	var out FileEntry

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}
	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !constants.AllowedExt(ext) {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("close file failed", "path", abs, "error", err)
		}
	}()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return out, err
	}

	return FileEntry{
		Path:    abs,
		Ext:     ext,
		Size:    size,
		HashHex: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// ScanDirectory walks root, skipping hidden entries when asked, and returns
// the supported files it found. Duplicate content counts once.
func (s *Scanner) ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]FileEntry, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var entries []FileEntry
	var stats DirStats
	seen := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.Scanned++
		if walkErr != nil {
			s.logger.Warn("walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		entry, err := s.ScanFile(ctx, path)
		if err != nil {
			s.logger.Warn("scan file failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		if _, dup := seen[entry.HashHex]; dup {
			stats.Deduplicated++
			return nil
		}
		seen[entry.HashHex] = struct{}{}
		entries = append(entries, entry)
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return entries, stats, fmt.Errorf("walk: %w", err)
	}
	return entries, stats, nil
}

// isHidden reports whether the path's base name starts with '.'.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
