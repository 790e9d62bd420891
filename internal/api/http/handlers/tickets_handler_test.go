package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/mintickets/helpdesk/internal/api/http"
	"github.com/mintickets/helpdesk/internal/api/http/handlers"
	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/events"
	"github.com/mintickets/helpdesk/internal/observability"
	"github.com/mintickets/helpdesk/internal/service"
)

type stubTicketRepo struct {
	tickets map[int64]*domain.Ticket
	nextID  int64
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: map[int64]*domain.Ticket{}, nextID: 1}
}

func (r *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = r.nextID
	r.nextID++
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *stubTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *stubTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *stubTicketRepo) List(context.Context) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *stubTicketRepo) DeleteCascade(_ context.Context, id int64) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

type stubAttachmentRepo struct {
	byRole map[domain.AttachmentRole][]domain.Attachment
	nextID int64
}

func newStubAttachmentRepo() *stubAttachmentRepo {
	return &stubAttachmentRepo{byRole: map[domain.AttachmentRole][]domain.Attachment{}, nextID: 1}
}

func (r *stubAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	attachment.ID = r.nextID
	attachment.CreatedAt = time.Now()
	r.nextID++
	r.byRole[attachment.Role] = append(r.byRole[attachment.Role], *attachment)
	return nil
}

func (r *stubAttachmentRepo) GetByID(_ context.Context, role domain.AttachmentRole, id int64) (*domain.Attachment, error) {
	for _, attachment := range r.byRole[role] {
		if attachment.ID == id {
			copied := attachment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAttachmentRepo) ListByTicket(_ context.Context, role domain.AttachmentRole, ticketID int64) ([]domain.Attachment, error) {
	result := []domain.Attachment{}
	for _, attachment := range r.byRole[role] {
		if attachment.TicketID == ticketID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

func (r *stubAttachmentRepo) ListMetaByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	description, _ := r.ListByTicket(ctx, domain.AttachmentRoleDescription, ticketID)
	response, _ := r.ListByTicket(ctx, domain.AttachmentRoleResponse, ticketID)
	return append(description, response...), nil
}

func (r *stubAttachmentRepo) DeleteByTicket(_ context.Context, ticketID int64) error {
	return nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	attachmentRepo := newStubAttachmentRepo()
	store := service.NewAttachmentStore(attachmentRepo, config.StorageConfig{
		UploadRoot:         t.TempDir(),
		MaxAttachmentBytes: 1024,
		Policy:             config.AttachmentPolicySkip,
	}, zap.NewNop())

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     newStubTicketRepo(),
		AttachmentRepo: attachmentRepo,
		Store:          store,
		Dispatcher:     events.NewInMemoryDispatcher(),
		Location:       time.UTC,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)

	ticketsHandler := handlers.NewTicketsHandler(ticketService)
	tickets := app.Group("/tickets")
	tickets.Post("/register", ticketsHandler.CreateTicket)
	tickets.Get("/", ticketsHandler.ListTickets)
	tickets.Get("/attachment/:id", ticketsHandler.DownloadAttachment)
	tickets.Get("/:id", ticketsHandler.GetTicket)
	tickets.Patch("/:id", ticketsHandler.UpdateTicket)
	tickets.Delete("/:id", ticketsHandler.DeleteTicket)
	tickets.Put("/:id/finalize", ticketsHandler.FinalizeTicket)
	tickets.Post("/:id/rate", ticketsHandler.RateTicket)
	tickets.Get("/:id/attachments", ticketsHandler.ListAttachments)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func validTicketPayload() map[string]any {
	return map[string]any{
		"tema":                "Correo bloqueado",
		"estado":              "Abierto",
		"tercero_nombre":      "Laura Pérez",
		"tercero_email":       "laura@example.com",
		"especialista_nombre": "Carlos Ruiz",
		"especialista_email":  "carlos@example.com",
		"descripcion_caso":    "La cuenta quedó bloqueada tras varios intentos",
	}
}

func TestRegisterTicketReturnsCreated(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/tickets/register", validTicketPayload())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "Correo bloqueado", data["tema"])
	assert.Equal(t, "Abierto", data["estado"])
	assert.Nil(t, data["fecha_finalizacion"])
}

func TestRegisterTicketMissingFieldNamesIt(t *testing.T) {
	app := newTestApp(t)

	payload := validTicketPayload()
	delete(payload, "especialista_email")
	resp := postJSON(t, app, "/tickets/register", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	details := errBody["details"].(map[string]any)
	assert.Equal(t, "especialista_email", details["field"])
}

func TestGetTicketUnknownIDReturns404(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/tickets/999", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestGetTicketMalformedIDReturns400(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/tickets/abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFinalizeThenDownloadAttachment(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/tickets/register", validTicketPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	finalizeBody, err := json.Marshal(map[string]any{
		"solucion_caso": "Se restableció la contraseña",
		"adjuntos": []map[string]any{
			{"file_name": "acta.txt", "mime_type": "text/plain", "content": "aG9sYQ=="},
		},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPut, "/tickets/1/finalize", bytes.NewReader(finalizeBody))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Solucionado", data["estado"])
	assert.NotNil(t, data["fecha_finalizacion"])

	req = httptest.NewRequest(fiber.MethodGet, "/tickets/attachment/1", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="acta.txt"`)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hola", string(raw))
}

func TestListAttachmentsEmptyList(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/tickets/register", validTicketPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/tickets/1/attachments", nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	body := decodeBody(t, getResp)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestDeleteTicketReturnsNoContent(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/tickets/register", validTicketPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodDelete, "/tickets/1", nil)
	delResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/tickets/1", nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestRateWithDisapprovalReturnsTicket(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/tickets/register", validTicketPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	rateResp := postJSON(t, app, "/tickets/1/rate", map[string]any{
		"calificacion_tiempo_respuesta": 3,
		"calificacion_actitud":          4,
		"calificacion_respuesta":        2,
		"aprobacion_solucion":           "No",
	})
	require.Equal(t, http.StatusOK, rateResp.StatusCode)

	body := decodeBody(t, rateResp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Devuelto", data["estado"])
	assert.Equal(t, float64(3), data["calificacion_tiempo_respuesta"])
}
