package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mintickets/helpdesk/internal/auth"
	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/directory"
	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/repository"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// AuthService handles local account registration and both login flows:
// registered users against the database, specialists against the directory.
type AuthService struct {
	users   repository.UserRepository
	dir     directory.Directory
	tokens  *auth.TokenManager
	authCfg config.AuthConfig
	logger  *zap.Logger
}

// AuthDependencies wires AuthService collaborators.
type AuthDependencies struct {
	Users     repository.UserRepository
	Directory directory.Directory
	Tokens    *auth.TokenManager
	AuthCfg   config.AuthConfig
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:   deps.Users,
		dir:     deps.Directory,
		tokens:  deps.Tokens,
		authCfg: deps.AuthCfg,
		logger:  deps.Logger,
	}
}

// RegisterInput carries a new local account request.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// LoginInput carries credentials for either login flow.
type LoginInput struct {
	Username string
	Password string
}

// TokenResult is an issued access token with its expiry.
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}

// UserLoginResult pairs a token with the authenticated local user.
type UserLoginResult struct {
	TokenResult
	User *domain.User
}

// SpecialistLoginResult pairs a token with the directory profile.
type SpecialistLoginResult struct {
	TokenResult
	Profile *directory.Profile
}

// Register creates a local account. The username must be unused.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return nil, apperrors.NewMissingFieldError("username")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewMissingFieldError("email")
	}
	if input.Password == "" {
		return nil, apperrors.NewMissingFieldError("password")
	}

	existing, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("el nombre de usuario ya está registrado",
			map[string]any{"username": input.Username})
	}

	hashed, err := auth.HashPassword(input.Password, s.authCfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a local account and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*UserLoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, apperrors.NewUnauthorized("credenciales inválidas")
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("credenciales inválidas")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, input.Password); err != nil {
		return nil, apperrors.NewUnauthorized("credenciales inválidas")
	}

	token, expiresAt, err := s.tokens.GenerateToken(strconv.FormatInt(user.ID, 10), domain.SubjectTypeUser)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &UserLoginResult{
		TokenResult: TokenResult{Token: token, ExpiresAt: expiresAt},
		User:        user,
	}, nil
}

// GetUser loads a local account by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// SpecialistLogin authenticates against the directory and issues a token
// carrying the specialist username. A nil profile from the directory means
// the credentials were rejected.
func (s *AuthService) SpecialistLogin(ctx context.Context, input LoginInput) (*SpecialistLoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, apperrors.NewUnauthorized("credenciales inválidas")
	}

	profile, err := s.dir.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if profile == nil {
		return nil, apperrors.NewUnauthorized("credenciales inválidas")
	}

	token, expiresAt, err := s.tokens.GenerateToken(profile.Username, domain.SubjectTypeSpecialist)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("specialist authenticated", zap.String("username", profile.Username))
	return &SpecialistLoginResult{
		TokenResult: TokenResult{Token: token, ExpiresAt: expiresAt},
		Profile:     profile,
	}, nil
}
