package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mintickets/helpdesk/internal/api/dto"
	"github.com/mintickets/helpdesk/internal/auth"
	"github.com/mintickets/helpdesk/internal/service"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// UsersHandler manages local account endpoints.
type UsersHandler struct {
	service *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{service: authService}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	user, err := h.service.Register(c.Context(), req.ToRegisterInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToUserResponse(user)})
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	result, err := h.service.Login(c.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToUserLoginResponse(result)})
}

// CurrentUser GET /auth/user.
func (h *UsersHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.service.GetUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToUserResponse(user)})
}
