package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/repository"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

const maxFileNameLen = 120

// AttachmentStore persists uploaded binaries. The database row is the
// authoritative copy; a mirror file under the upload root is written
// best-effort and may be stale or absent.
type AttachmentStore struct {
	repo   repository.AttachmentRepository
	cfg    config.StorageConfig
	logger *zap.Logger
}

// NewAttachmentStore constructs the store.
func NewAttachmentStore(repo repository.AttachmentRepository, cfg config.StorageConfig, logger *zap.Logger) *AttachmentStore {
	return &AttachmentStore{repo: repo, cfg: cfg, logger: logger}
}

// AttachmentUpload is one file within a request, content base64-encoded as
// submitted on the wire.
type AttachmentUpload struct {
	FileName      string
	MimeType      string
	ContentBase64 string
}

// BatchResult reports what a batch stored and what it dropped.
type BatchResult struct {
	Stored  []domain.Attachment
	Skipped []string
}

// ValidateBatch decodes and size-checks a batch without persisting anything.
// Under the reject policy a single bad file fails the call, so callers run
// this before any other write of the enclosing request.
func (s *AttachmentStore) ValidateBatch(uploads []AttachmentUpload) error {
	if s.cfg.Policy != config.AttachmentPolicyReject {
		return nil
	}
	for _, upload := range uploads {
		content, err := base64.StdEncoding.DecodeString(upload.ContentBase64)
		if err != nil {
			return apperrors.NewValidationError(
				fmt.Sprintf("archivo adjunto ilegible: %s", upload.FileName),
				map[string]any{"file": upload.FileName},
			)
		}
		if int64(len(content)) > s.cfg.MaxAttachmentBytes {
			return apperrors.NewValidationError(
				fmt.Sprintf("archivo adjunto demasiado grande: %s", upload.FileName),
				map[string]any{"file": upload.FileName, "max_bytes": s.cfg.MaxAttachmentBytes},
			)
		}
	}
	return nil
}

// PutBatch stores each upload independently: one bad file never rolls back
// files already accepted in the same request. Under the skip policy bad
// files land in Skipped; under reject the caller is expected to have run
// ValidateBatch first, so per-file failures here are storage errors and are
// skipped the same way rather than aborting the batch.
func (s *AttachmentStore) PutBatch(ctx context.Context, ticketID int64, role domain.AttachmentRole, uploads []AttachmentUpload) BatchResult {
	result := BatchResult{Stored: []domain.Attachment{}, Skipped: []string{}}
	for _, upload := range uploads {
		content, err := base64.StdEncoding.DecodeString(upload.ContentBase64)
		if err != nil {
			s.logger.Warn("attachment content not valid base64",
				zap.String("file", upload.FileName), zap.Int64("ticket_id", ticketID))
			result.Skipped = append(result.Skipped, upload.FileName)
			continue
		}
		stored, err := s.Put(ctx, ticketID, role, upload.FileName, upload.MimeType, content)
		if err != nil {
			s.logger.Warn("attachment rejected",
				zap.String("file", upload.FileName), zap.Int64("ticket_id", ticketID), zap.Error(err))
			result.Skipped = append(result.Skipped, upload.FileName)
			continue
		}
		result.Stored = append(result.Stored, *stored)
	}
	return result
}

// Put stores a single decoded attachment and mirrors it to the filesystem.
func (s *AttachmentStore) Put(ctx context.Context, ticketID int64, role domain.AttachmentRole, fileName, mimeType string, content []byte) (*domain.Attachment, error) {
	if int64(len(content)) > s.cfg.MaxAttachmentBytes {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("archivo adjunto demasiado grande: %s", fileName),
			map[string]any{"file": fileName, "max_bytes": s.cfg.MaxAttachmentBytes},
		)
	}

	attachment := &domain.Attachment{
		TicketID: ticketID,
		FileName: SanitizeFileName(fileName),
		MimeType: mimeType,
		Content:  content,
		Role:     role,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, err
	}

	s.mirror(attachment)
	return attachment, nil
}

// GetByTicket returns attachments with content, optionally filtered by role.
func (s *AttachmentStore) GetByTicket(ctx context.Context, ticketID int64, role *domain.AttachmentRole) ([]domain.Attachment, error) {
	if role != nil {
		return s.repo.ListByTicket(ctx, *role, ticketID)
	}
	description, err := s.repo.ListByTicket(ctx, domain.AttachmentRoleDescription, ticketID)
	if err != nil {
		return nil, err
	}
	response, err := s.repo.ListByTicket(ctx, domain.AttachmentRoleResponse, ticketID)
	if err != nil {
		return nil, err
	}
	return append(description, response...), nil
}

// DeleteByTicket removes attachment rows for a ticket and, best-effort, its
// mirror directory.
func (s *AttachmentStore) DeleteByTicket(ctx context.Context, ticketID int64) error {
	if err := s.repo.DeleteByTicket(ctx, ticketID); err != nil {
		return err
	}
	s.RemoveMirror(ticketID)
	return nil
}

// RemoveMirror deletes the per-ticket mirror directory. A crash mid-walk can
// leave orphans; the database remains the source of truth.
func (s *AttachmentStore) RemoveMirror(ticketID int64) {
	if s.cfg.UploadRoot == "" {
		return
	}
	dir := filepath.Join(s.cfg.UploadRoot, fmt.Sprintf("%d", ticketID))
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("mirror cleanup failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
	}
}

func (s *AttachmentStore) mirror(attachment *domain.Attachment) {
	if s.cfg.UploadRoot == "" {
		return
	}
	dir := filepath.Join(s.cfg.UploadRoot, fmt.Sprintf("%d", attachment.TicketID), string(attachment.Role))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("mirror dir create failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	path := filepath.Join(dir, attachment.FileName)
	if err := os.WriteFile(path, attachment.Content, 0o644); err != nil {
		s.logger.Warn("mirror write failed", zap.String("path", path), zap.Error(err))
	}
}

// SanitizeFileName strips path-control characters from an uploaded name and
// bounds its length. An empty result is replaced with a generated name so
// mirroring never produces an unwritable path.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
		case r == '/' || r == '\\' || r == ':':
		default:
			b.WriteRune(r)
		}
	}
	name = strings.Trim(b.String(), ". ")

	if runes := []rune(name); len(runes) > maxFileNameLen {
		ext := filepath.Ext(name)
		if len([]rune(ext)) >= maxFileNameLen {
			ext = ""
		}
		keep := maxFileNameLen - len([]rune(ext))
		name = string(runes[:keep]) + ext
	}
	if name == "" {
		name = "adjunto-" + uuid.NewString()[:8]
	}
	return name
}
