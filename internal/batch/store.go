// Package batch persists local extraction runs and renders them as XLSX
// reports. The store is a single SQLite file so runs survive restarts
// without needing the full server stack.
package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
)

// Record is one extraction outcome.
type Record struct {
	Path        string
	HashHex     string
	Result      extract.Result
	ExtractedAt time.Time
}

type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the results database at path.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS extraction_results (
			hash_hex     TEXT PRIMARY KEY,
			path         TEXT NOT NULL,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL,
			doc_type     TEXT NOT NULL,
			category     TEXT NOT NULL,
			metadata     TEXT NOT NULL,
			tags         TEXT NOT NULL,
			extracted_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

// SaveResult upserts a record keyed by content hash, so re-running a
// directory refreshes rather than duplicates.
func (s *Store) SaveResult(ctx context.Context, rec Record) error {
	meta, err := json.Marshal(rec.Result.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	tags, err := json.Marshal(rec.Result.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extraction_results
			(hash_hex, path, name, description, doc_type, category, metadata, tags, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash_hex) DO UPDATE SET
			path = excluded.path,
			name = excluded.name,
			description = excluded.description,
			doc_type = excluded.doc_type,
			category = excluded.category,
			metadata = excluded.metadata,
			tags = excluded.tags,
			extracted_at = excluded.extracted_at`,
		rec.HashHex, rec.Path, rec.Result.Name, rec.Result.Description,
		string(rec.Result.Type), rec.Result.CategoryID, string(meta), string(tags),
		rec.ExtractedAt.UTC())
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// ListResults returns all stored records ordered by path.
func (s *Store) ListResults(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash_hex, path, name, description, doc_type, category, metadata, tags, extracted_at
		FROM extraction_results ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var docType, meta, tags string
		if err := rows.Scan(&rec.HashHex, &rec.Path, &rec.Result.Name,
			&rec.Result.Description, &docType, &rec.Result.CategoryID,
			&meta, &tags, &rec.ExtractedAt); err != nil {
			return nil, err
		}
		rec.Result.Type = constants.DocumentType(docType)
		if err := json.Unmarshal([]byte(meta), &rec.Result.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", rec.Path, err)
		}
		if err := json.Unmarshal([]byte(tags), &rec.Result.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", rec.Path, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
