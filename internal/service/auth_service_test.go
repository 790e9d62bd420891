package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mintickets/helpdesk/internal/auth"
	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/directory"
	"github.com/mintickets/helpdesk/internal/domain"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

type mockUserRepo struct {
	createFn        func(ctx context.Context, user *domain.User) error
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFn(ctx, username)
}

type mockDirectory struct {
	authenticateFn func(ctx context.Context, username, password string) (*directory.Profile, error)
}

func (m *mockDirectory) Authenticate(ctx context.Context, username, password string) (*directory.Profile, error) {
	return m.authenticateFn(ctx, username, password)
}

func (m *mockDirectory) ListUsers(context.Context) ([]directory.User, error) {
	return nil, nil
}

func (m *mockDirectory) ListSpecialists(context.Context) ([]directory.Profile, error) {
	return nil, nil
}

func newAuthFixture(users *mockUserRepo, dir directory.Directory) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", 60)
	svc := NewAuthService(AuthDependencies{
		Users:     users,
		Directory: dir,
		Tokens:    tokens,
		AuthCfg:   config.AuthConfig{BcryptCost: 4},
		Logger:    zap.NewNop(),
	})
	return svc, tokens
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
	}
	svc, _ := newAuthFixture(users, &mockDirectory{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "lperez",
		Email:    "laura@example.com",
		Password: "secreto",
	})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus)
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		getByUsernameFn: func(context.Context, string) (*domain.User, error) {
			return nil, pgx.ErrNoRows
		},
		createFn: func(_ context.Context, user *domain.User) error {
			user.ID = 7
			created = user
			return nil
		},
	}
	svc, _ := newAuthFixture(users, &mockDirectory{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "lperez",
		Email:    "laura@example.com",
		Password: "secreto",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.ID)
	assert.NotEqual(t, "secreto", created.PasswordHash)
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "secreto"))
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	hash, err := auth.HashPassword("correcta", 4)
	require.NoError(t, err)
	users := &mockUserRepo{
		getByUsernameFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: 7, Username: "lperez", PasswordHash: hash}, nil
		},
	}
	svc, _ := newAuthFixture(users, &mockDirectory{})

	_, err = svc.Login(context.Background(), LoginInput{Username: "lperez", Password: "equivocada"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLoginUnknownUserUnauthorized(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(context.Context, string) (*domain.User, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc, _ := newAuthFixture(users, &mockDirectory{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "nadie", Password: "x"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLoginIssuesUserToken(t *testing.T) {
	hash, err := auth.HashPassword("secreto", 4)
	require.NoError(t, err)
	users := &mockUserRepo{
		getByUsernameFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: 7, Username: "lperez", PasswordHash: hash}, nil
		},
	}
	svc, tokens := newAuthFixture(users, &mockDirectory{})

	result, err := svc.Login(context.Background(), LoginInput{Username: "lperez", Password: "secreto"})
	require.NoError(t, err)

	claims, err := tokens.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)
	assert.Equal(t, strconv.FormatInt(7, 10), claims.SubjectID)
	assert.Equal(t, int64(7), result.User.ID)
}

func TestSpecialistLoginRejectedCredentials(t *testing.T) {
	dir := &mockDirectory{
		authenticateFn: func(context.Context, string, string) (*directory.Profile, error) {
			return nil, nil
		},
	}
	svc, _ := newAuthFixture(&mockUserRepo{}, dir)

	_, err := svc.SpecialistLogin(context.Background(), LoginInput{Username: "cruiz", Password: "mala"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestSpecialistLoginIssuesSpecialistToken(t *testing.T) {
	dir := &mockDirectory{
		authenticateFn: func(_ context.Context, username, _ string) (*directory.Profile, error) {
			return &directory.Profile{Username: username, FullName: "Carlos Ruiz", Email: "carlos@example.com"}, nil
		},
	}
	svc, tokens := newAuthFixture(&mockUserRepo{}, dir)

	result, err := svc.SpecialistLogin(context.Background(), LoginInput{Username: "cruiz", Password: "buena"})
	require.NoError(t, err)

	claims, err := tokens.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeSpecialist, claims.Subject)
	assert.Equal(t, "cruiz", claims.SubjectID)
	assert.Equal(t, "Carlos Ruiz", result.Profile.FullName)
}
