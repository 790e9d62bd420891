package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mintickets/helpdesk/internal/domain"
)

// AttachmentRepository persists attachment blobs. Description and response
// attachments live in separate tables, so every call is role-scoped.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	GetByID(ctx context.Context, role domain.AttachmentRole, id int64) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, role domain.AttachmentRole, ticketID int64) ([]domain.Attachment, error)
	// ListMetaByTicket returns name/mime/role for both tables without content.
	ListMetaByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error)
	DeleteByTicket(ctx context.Context, ticketID int64) error
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func tableForRole(role domain.AttachmentRole) string {
	if role == domain.AttachmentRoleResponse {
		return "response_attachments"
	}
	return "description_attachments"
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (ticket_id, file_name, mime_type, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`, tableForRole(attachment.Role))
	return r.pool.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.FileName,
		attachment.MimeType,
		attachment.Content,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) GetByID(ctx context.Context, role domain.AttachmentRole, id int64) (*domain.Attachment, error) {
	query := fmt.Sprintf(`
        SELECT id, ticket_id, file_name, mime_type, content, created_at
        FROM %s WHERE id=$1`, tableForRole(role))
	attachment := domain.Attachment{Role: role}
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.TicketID,
		&attachment.FileName,
		&attachment.MimeType,
		&attachment.Content,
		&attachment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, role domain.AttachmentRole, ticketID int64) ([]domain.Attachment, error) {
	query := fmt.Sprintf(`
        SELECT id, ticket_id, file_name, mime_type, content, created_at
        FROM %s WHERE ticket_id=$1 ORDER BY id`, tableForRole(role))
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttachments(rows, role, true)
}

func (r *attachmentRepository) ListMetaByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	result := []domain.Attachment{}
	for _, role := range []domain.AttachmentRole{domain.AttachmentRoleDescription, domain.AttachmentRoleResponse} {
		query := fmt.Sprintf(`
            SELECT id, ticket_id, file_name, mime_type, created_at
            FROM %s WHERE ticket_id=$1 ORDER BY id`, tableForRole(role))
		rows, err := r.pool.Query(ctx, query, ticketID)
		if err != nil {
			return nil, err
		}
		batch, err := scanAttachments(rows, role, false)
		rows.Close()
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}
	return result, nil
}

func (r *attachmentRepository) DeleteByTicket(ctx context.Context, ticketID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM description_attachments WHERE ticket_id=$1`, ticketID); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM response_attachments WHERE ticket_id=$1`, ticketID)
	return err
}

func scanAttachments(rows pgx.Rows, role domain.AttachmentRole, withContent bool) ([]domain.Attachment, error) {
	result := []domain.Attachment{}
	for rows.Next() {
		attachment := domain.Attachment{Role: role}
		fields := []any{&attachment.ID, &attachment.TicketID, &attachment.FileName, &attachment.MimeType}
		if withContent {
			fields = append(fields, &attachment.Content)
		}
		fields = append(fields, &attachment.CreatedAt)
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
