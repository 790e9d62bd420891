package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mintickets/helpdesk/internal/api/dto"
	"github.com/mintickets/helpdesk/internal/service"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// CatalogHandler manages the ticket form lookup tables.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// CreateTopic POST /topics.
func (h *CatalogHandler) CreateTopic(c *fiber.Ctx) error {
	var req dto.TopicRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	topic, err := h.service.CreateTopic(c.Context(), req.Name, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToTopicResponse(*topic)})
}

// ListTopics GET /topics.
func (h *CatalogHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListTopics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTopicListResponse(topics)})
}

// UpdateTopic PUT /topics/:id.
func (h *CatalogHandler) UpdateTopic(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TopicRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	topic, err := h.service.UpdateTopic(c.Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTopicResponse(*topic)})
}

// DeleteTopic DELETE /topics/:id.
func (h *CatalogHandler) DeleteTopic(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTopic(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateStatus POST /statuses.
func (h *CatalogHandler) CreateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	status, err := h.service.CreateStatus(c.Context(), req.Name, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToStatusResponse(*status)})
}

// ListStatuses GET /statuses.
func (h *CatalogHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToStatusListResponse(statuses)})
}

// UpdateStatus PUT /statuses/:id.
func (h *CatalogHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	status, err := h.service.UpdateStatus(c.Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToStatusResponse(*status)})
}

// DeleteStatus DELETE /statuses/:id.
func (h *CatalogHandler) DeleteStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteStatus(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateTercero POST /terceros.
func (h *CatalogHandler) CreateTercero(c *fiber.Ctx) error {
	var req dto.TerceroRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	tercero, err := h.service.CreateTercero(c.Context(), req.Name, req.Email, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToTerceroResponse(*tercero)})
}

// ListTerceros GET /terceros.
func (h *CatalogHandler) ListTerceros(c *fiber.Ctx) error {
	terceros, err := h.service.ListTerceros(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTerceroListResponse(terceros)})
}

// UpdateTercero PUT /terceros/:id.
func (h *CatalogHandler) UpdateTercero(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TerceroRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("cuerpo de la solicitud inválido", nil)
	}
	tercero, err := h.service.UpdateTercero(c.Context(), id, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTerceroResponse(*tercero)})
}

// DeleteTercero DELETE /terceros/:id.
func (h *CatalogHandler) DeleteTercero(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTercero(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
