package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

// Collaborator link lifecycle.
const (
	LinkStatusActive  = "active"
	LinkStatusExpired = "expired"
	LinkStatusUsed    = "used"
)

type CollaboratorLink struct {
	Token             string      `json:"token"`
	UserID            uuid.UUID   `json:"userId"`
	CollaboratorName  string      `json:"name"`
	CollaboratorEmail string      `json:"email"`
	DocumentType      string      `json:"documentType,omitempty"`
	Message           string      `json:"message,omitempty"`
	ExpirationDate    time.Time   `json:"expirationDate"`
	ManualApproval    bool        `json:"manualApproval"`
	Status            string      `json:"status"`
	DocumentsUploaded []uuid.UUID `json:"documentsUploaded,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

type LinkRepository interface {
	Create(ctx context.Context, link *CollaboratorLink) error
	GetByToken(ctx context.Context, token string) (*CollaboratorLink, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*CollaboratorLink, error)
	AppendDocument(ctx context.Context, token string, docID uuid.UUID) error
	SetStatus(ctx context.Context, token, status string) error
}

type linkRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLinkRepository(pool *pgxpool.Pool, logger *slog.Logger) LinkRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &linkRepository{pool: pool, logger: logger}
}

func (r *linkRepository) Create(ctx context.Context, link *CollaboratorLink) error {
	if link.Token == "" {
		link.Token = uuid.NewString()
	}
	if link.Status == "" {
		link.Status = LinkStatusActive
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO collaborator_links
			(token, user_id, collaborator_name, collaborator_email, document_type,
			 message, expiration_date, manual_approval, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING created_at`,
		link.Token, link.UserID, link.CollaboratorName, link.CollaboratorEmail,
		nullable(link.DocumentType), nullable(link.Message), link.ExpirationDate,
		link.ManualApproval, link.Status,
	).Scan(&link.CreatedAt)
	if err != nil {
		r.logger.Error("create collaborator link failed", "user_id", link.UserID, "error", err)
	}
	return err
}

func (r *linkRepository) GetByToken(ctx context.Context, token string) (*CollaboratorLink, error) {
	var l CollaboratorLink
	err := r.pool.QueryRow(ctx,
		`SELECT token, user_id, collaborator_name, collaborator_email,
			COALESCE(document_type, ''), COALESCE(message, ''), expiration_date,
			manual_approval, status, documents_uploaded, created_at
		 FROM collaborator_links WHERE token = $1`, token,
	).Scan(&l.Token, &l.UserID, &l.CollaboratorName, &l.CollaboratorEmail,
		&l.DocumentType, &l.Message, &l.ExpirationDate, &l.ManualApproval,
		&l.Status, &l.DocumentsUploaded, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *linkRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*CollaboratorLink, error) {
	query := `SELECT token, user_id, collaborator_name, collaborator_email,
		COALESCE(document_type, ''), COALESCE(message, ''), expiration_date,
		manual_approval, status, documents_uploaded, created_at
	 FROM collaborator_links WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		query += " AND status = $2"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CollaboratorLink
	for rows.Next() {
		var l CollaboratorLink
		if err := rows.Scan(&l.Token, &l.UserID, &l.CollaboratorName, &l.CollaboratorEmail,
			&l.DocumentType, &l.Message, &l.ExpirationDate, &l.ManualApproval,
			&l.Status, &l.DocumentsUploaded, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *linkRepository) AppendDocument(ctx context.Context, token string, docID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE collaborator_links
		 SET documents_uploaded = array_append(documents_uploaded, $2)
		 WHERE token = $1`, token, docID)
	return err
}

func (r *linkRepository) SetStatus(ctx context.Context, token, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE collaborator_links SET status = $2 WHERE token = $1`, token, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
