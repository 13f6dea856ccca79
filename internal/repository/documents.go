package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
)

type Document struct {
	ID             uuid.UUID                `json:"id"`
	UserID         uuid.UUID                `json:"userId"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description,omitempty"`
	Type           constants.DocumentType   `json:"type"`
	CategorySlug   string                   `json:"categoryId"`
	IssueDate      *time.Time               `json:"issueDate,omitempty"`
	ExpirationDate *time.Time               `json:"expirationDate,omitempty"`
	Status         constants.DocumentStatus `json:"status"`
	FileURL        string                   `json:"fileUrl"`
	FileSize       int64                    `json:"fileSize,omitempty"`
	FileFormat     string                   `json:"fileFormat,omitempty"`
	Metadata       extract.Metadata         `json:"metadata"`
	Tags           []string                 `json:"tags,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// DocumentFilter narrows ListByUser. Zero values mean "no filter".
type DocumentFilter struct {
	Category string
	Type     string
	Status   string
	Search   string // matches name or description, case-insensitive
}

// DocumentUpdate carries the mutable fields of a document; nil pointers
// leave the column untouched.
type DocumentUpdate struct {
	Name           *string
	Description    *string
	CategorySlug   *string
	IssueDate      *time.Time
	ExpirationDate *time.Time
	Status         *constants.DocumentStatus
	Metadata       *extract.Metadata
	Tags           []string
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter DocumentFilter) ([]*Document, error)
	Update(ctx context.Context, id uuid.UUID, upd DocumentUpdate) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{pool: pool, logger: logger}
}

const documentColumns = `id, user_id, name, COALESCE(description, ''), doc_type, category_slug,
	issue_date, expiration_date, status, file_url, COALESCE(file_size, 0),
	COALESCE(file_format, ''), metadata, tags, created_at, updated_at`

func (r *documentRepository) Create(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return common.WrapError(err, "encode metadata")
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO documents
			(id, user_id, name, description, doc_type, category_slug, issue_date,
			 expiration_date, status, file_url, file_size, file_format, metadata, tags)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		 RETURNING created_at, updated_at`,
		doc.ID, doc.UserID, doc.Name, nullable(doc.Description), doc.Type,
		doc.CategorySlug, doc.IssueDate, doc.ExpirationDate, doc.Status,
		doc.FileURL, doc.FileSize, nullable(doc.FileFormat), meta, doc.Tags,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		r.logger.Error("create document failed", "user_id", doc.UserID, "error", err)
		return err
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter DocumentFilter) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1`
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category_slug = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND doc_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *documentRepository) Update(ctx context.Context, id uuid.UUID, upd DocumentUpdate) (*Document, error) {
	set := "updated_at = now()"
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", nullable(*upd.Description))
	}
	if upd.CategorySlug != nil {
		add("category_slug", *upd.CategorySlug)
	}
	if upd.IssueDate != nil {
		add("issue_date", *upd.IssueDate)
	}
	if upd.ExpirationDate != nil {
		add("expiration_date", *upd.ExpirationDate)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Metadata != nil {
		meta, err := json.Marshal(*upd.Metadata)
		if err != nil {
			return nil, common.WrapError(err, "encode metadata")
		}
		add("metadata", meta)
	}
	if upd.Tags != nil {
		add("tags", upd.Tags)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d RETURNING `+documentColumns, set, len(args))
	return scanDocument(r.pool.QueryRow(ctx, query, args...))
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var doc Document
	var meta []byte
	err := row.Scan(
		&doc.ID, &doc.UserID, &doc.Name, &doc.Description, &doc.Type,
		&doc.CategorySlug, &doc.IssueDate, &doc.ExpirationDate, &doc.Status,
		&doc.FileURL, &doc.FileSize, &doc.FileFormat, &meta, &doc.Tags,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
			return nil, common.WrapError(err, "decode metadata")
		}
	}
	return &doc, nil
}
