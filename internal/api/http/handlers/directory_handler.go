package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mintickets/helpdesk/internal/api/dto"
	"github.com/mintickets/helpdesk/internal/directory"
	"github.com/mintickets/helpdesk/internal/service"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// DirectoryHandler exposes directory account listings and the specialist
// login. Listings come from the cached directory, so the filter endpoints
// narrow the cached set in memory instead of issuing per-request searches.
type DirectoryHandler struct {
	dir         directory.Directory
	authService *service.AuthService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(dir directory.Directory, authService *service.AuthService) *DirectoryHandler {
	return &DirectoryHandler{dir: dir, authService: authService}
}

// SpecialistLogin POST /authpazysalvo/login.
func (h *DirectoryHandler) SpecialistLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	result, err := h.authService.SpecialistLogin(c.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToSpecialistLoginResponse(result)})
}

// ListUsers GET /tercerosda/.
func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.dir.ListUsers(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetUser GET /tercerosda/:username.
func (h *DirectoryHandler) GetUser(c *fiber.Ctx) error {
	username := c.Params("username")
	users, err := h.dir.ListUsers(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, user := range users {
		if strings.EqualFold(user.Username, username) {
			return c.JSON(fiber.Map{"data": user})
		}
	}
	return apperrors.NewNotFound("directory user", map[string]any{"username": username})
}

// ListByDepartment GET /tercerosda/departamento/:departamento.
func (h *DirectoryHandler) ListByDepartment(c *fiber.Ctx) error {
	department := c.Params("departamento")
	users, err := h.dir.ListUsers(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	matched := make([]directory.User, 0)
	for _, user := range users {
		if containsFold(user.Department, department) {
			matched = append(matched, user)
		}
	}
	return c.JSON(fiber.Map{"data": matched})
}

// ListByGroup GET /tercerosda/grupo/:grupo.
func (h *DirectoryHandler) ListByGroup(c *fiber.Ctx) error {
	group := c.Params("grupo")
	users, err := h.dir.ListUsers(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	matched := make([]directory.User, 0)
	for _, user := range users {
		for _, membership := range user.Groups {
			if containsFold(membership, group) {
				matched = append(matched, user)
				break
			}
		}
	}
	return c.JSON(fiber.Map{"data": matched})
}

// ListSpecialists GET /tercerosda/especialistas.
func (h *DirectoryHandler) ListSpecialists(c *fiber.Ctx) error {
	specialists, err := h.dir.ListSpecialists(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": specialists})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
