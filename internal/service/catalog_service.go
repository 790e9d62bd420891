package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/repository"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// CatalogService manages the lookup tables the ticket form is built from:
// topics, status labels, and terceros.
type CatalogService struct {
	topics   repository.TopicRepository
	statuses repository.StatusRepository
	terceros repository.TerceroRepository
}

// CatalogDependencies bundles the catalog repositories.
type CatalogDependencies struct {
	Topics   repository.TopicRepository
	Statuses repository.StatusRepository
	Terceros repository.TerceroRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		topics:   deps.Topics,
		statuses: deps.Statuses,
		terceros: deps.Terceros,
	}
}

// CreateTopic adds a subject category.
func (s *CatalogService) CreateTopic(ctx context.Context, name string, userID *int64) (*domain.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingFieldError("nombre")
	}
	topic := &domain.Topic{Name: name, UserID: userID}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return topic, nil
}

// UpdateTopic renames a subject category.
func (s *CatalogService) UpdateTopic(ctx context.Context, id int64, name string) (*domain.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingFieldError("nombre")
	}
	topic := &domain.Topic{ID: id, Name: name}
	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, mapCatalogError(err, "topic", id)
	}
	return topic, nil
}

// ListTopics returns all subject categories.
func (s *CatalogService) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	return s.topics.List(ctx)
}

// DeleteTopic removes a subject category.
func (s *CatalogService) DeleteTopic(ctx context.Context, id int64) error {
	if err := s.topics.Delete(ctx, id); err != nil {
		return mapCatalogError(err, "topic", id)
	}
	return nil
}

// CreateStatus adds a status label.
func (s *CatalogService) CreateStatus(ctx context.Context, name string, userID *int64) (*domain.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingFieldError("nombre")
	}
	status := &domain.Status{Name: name, UserID: userID}
	if err := s.statuses.Create(ctx, status); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return status, nil
}

// UpdateStatus renames a status label.
func (s *CatalogService) UpdateStatus(ctx context.Context, id int64, name string) (*domain.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingFieldError("nombre")
	}
	status := &domain.Status{ID: id, Name: name}
	if err := s.statuses.Update(ctx, status); err != nil {
		return nil, mapCatalogError(err, "status", id)
	}
	return status, nil
}

// ListStatuses returns all status labels.
func (s *CatalogService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	return s.statuses.List(ctx)
}

// DeleteStatus removes a status label.
func (s *CatalogService) DeleteStatus(ctx context.Context, id int64) error {
	if err := s.statuses.Delete(ctx, id); err != nil {
		return mapCatalogError(err, "status", id)
	}
	return nil
}

// CreateTercero adds an external requester record.
func (s *CatalogService) CreateTercero(ctx context.Context, name, email string, userID *int64) (*domain.Tercero, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingFieldError("nombre")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewMissingFieldError("email")
	}
	tercero := &domain.Tercero{Name: name, Email: strings.TrimSpace(email), UserID: userID}
	if err := s.terceros.Create(ctx, tercero); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tercero, nil
}

// UpdateTercero edits an external requester record.
func (s *CatalogService) UpdateTercero(ctx context.Context, id int64, name, email string) (*domain.Tercero, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewMissingFieldError("nombre")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewMissingFieldError("email")
	}
	tercero := &domain.Tercero{ID: id, Name: name, Email: strings.TrimSpace(email)}
	if err := s.terceros.Update(ctx, tercero); err != nil {
		return nil, mapCatalogError(err, "tercero", id)
	}
	return tercero, nil
}

// ListTerceros returns all external requester records.
func (s *CatalogService) ListTerceros(ctx context.Context) ([]domain.Tercero, error) {
	return s.terceros.List(ctx)
}

// DeleteTercero removes an external requester record.
func (s *CatalogService) DeleteTercero(ctx context.Context, id int64) error {
	if err := s.terceros.Delete(ctx, id); err != nil {
		return mapCatalogError(err, "tercero", id)
	}
	return nil
}

func mapCatalogError(err error, resource string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.NewInternalError(err)
}
