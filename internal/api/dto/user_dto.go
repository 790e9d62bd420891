package dto

import (
	"time"

	"github.com/mintickets/helpdesk/internal/directory"
	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/service"
)

// RegisterUserRequest creates a local account.
type RegisterUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// LoginRequest carries credentials for both login endpoints.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the wire form of a local account. The password hash never
// leaves the server.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
}

// UserLoginResponse pairs the issued token with the account.
type UserLoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SpecialistLoginResponse pairs the issued token with the directory profile.
type SpecialistLoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt string            `json:"expires_at"`
	Profile   directory.Profile `json:"profile"`
}

// ToUserResponse maps a user to its wire form.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// ToUserLoginResponse maps a login result.
func ToUserLoginResponse(result *service.UserLoginResult) UserLoginResponse {
	return UserLoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
		User:      ToUserResponse(result.User),
	}
}

// ToSpecialistLoginResponse maps a specialist login result.
func ToSpecialistLoginResponse(result *service.SpecialistLoginResult) SpecialistLoginResponse {
	return SpecialistLoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
		Profile:   *result.Profile,
	}
}

// ToRegisterInput converts the request to the service input.
func (r RegisterUserRequest) ToRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}
