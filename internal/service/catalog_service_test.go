package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintickets/helpdesk/internal/domain"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

type mockTopicRepo struct {
	createFn func(ctx context.Context, topic *domain.Topic) error
	updateFn func(ctx context.Context, topic *domain.Topic) error
	listFn   func(ctx context.Context) ([]domain.Topic, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockTopicRepo) Create(ctx context.Context, topic *domain.Topic) error {
	return m.createFn(ctx, topic)
}
func (m *mockTopicRepo) Update(ctx context.Context, topic *domain.Topic) error {
	return m.updateFn(ctx, topic)
}
func (m *mockTopicRepo) List(ctx context.Context) ([]domain.Topic, error) { return m.listFn(ctx) }
func (m *mockTopicRepo) Delete(ctx context.Context, id int64) error       { return m.deleteFn(ctx, id) }

type mockTerceroRepo struct {
	createFn func(ctx context.Context, tercero *domain.Tercero) error
}

func (m *mockTerceroRepo) Create(ctx context.Context, tercero *domain.Tercero) error {
	return m.createFn(ctx, tercero)
}
func (m *mockTerceroRepo) Update(context.Context, *domain.Tercero) error  { return nil }
func (m *mockTerceroRepo) List(context.Context) ([]domain.Tercero, error) { return nil, nil }
func (m *mockTerceroRepo) Delete(context.Context, int64) error            { return nil }

func TestCreateTopicRequiresName(t *testing.T) {
	svc := NewCatalogService(CatalogDependencies{Topics: &mockTopicRepo{}})

	_, err := svc.CreateTopic(context.Background(), "   ", nil)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "nombre", domainErr.Details["field"])
}

func TestCreateTopicTrimsName(t *testing.T) {
	repo := &mockTopicRepo{createFn: func(_ context.Context, topic *domain.Topic) error {
		topic.ID = 3
		return nil
	}}
	svc := NewCatalogService(CatalogDependencies{Topics: repo})

	topic, err := svc.CreateTopic(context.Background(), "  Redes  ", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), topic.ID)
	assert.Equal(t, "Redes", topic.Name)
}

func TestUpdateTopicUnknownIDNotFound(t *testing.T) {
	repo := &mockTopicRepo{updateFn: func(context.Context, *domain.Topic) error {
		return pgx.ErrNoRows
	}}
	svc := NewCatalogService(CatalogDependencies{Topics: repo})

	_, err := svc.UpdateTopic(context.Background(), 99, "Redes")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListTopicsEmptyIsNotAnError(t *testing.T) {
	repo := &mockTopicRepo{listFn: func(context.Context) ([]domain.Topic, error) {
		return []domain.Topic{}, nil
	}}
	svc := NewCatalogService(CatalogDependencies{Topics: repo})

	topics, err := svc.ListTopics(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, topics)
	assert.Empty(t, topics)
}

func TestCreateTerceroRequiresEmail(t *testing.T) {
	svc := NewCatalogService(CatalogDependencies{Terceros: &mockTerceroRepo{}})

	_, err := svc.CreateTercero(context.Background(), "Empresa XYZ", "", nil)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "email", domainErr.Details["field"])
}

func TestDeleteTopicUnknownIDNotFound(t *testing.T) {
	repo := &mockTopicRepo{deleteFn: func(context.Context, int64) error {
		return pgx.ErrNoRows
	}}
	svc := NewCatalogService(CatalogDependencies{Topics: repo})

	err := svc.DeleteTopic(context.Background(), 99)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
