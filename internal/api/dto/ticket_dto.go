package dto

import (
	"time"

	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/service"
)

// AttachmentRequest is one uploaded file, content base64-encoded.
type AttachmentRequest struct {
	FileName      string `json:"file_name"`
	MimeType      string `json:"mime_type"`
	ContentBase64 string `json:"content"`
}

// CreateTicketRequest is the registration payload. Field names mirror what
// the frontend submits.
type CreateTicketRequest struct {
	Subject         string              `json:"tema"`
	Status          string              `json:"estado"`
	RequesterName   string              `json:"tercero_nombre"`
	RequesterEmail  string              `json:"tercero_email"`
	SpecialistName  string              `json:"especialista_nombre"`
	SpecialistEmail string              `json:"especialista_email"`
	Description     string              `json:"descripcion_caso"`
	Solution        *string             `json:"solucion_caso"`
	SecurityCode    *string             `json:"codigo_seguridad"`
	Attachments     []AttachmentRequest `json:"adjuntos"`
}

// UpdateTicketRequest carries a sparse update; absent fields are untouched.
type UpdateTicketRequest struct {
	Subject         *string             `json:"tema"`
	Status          *string             `json:"estado"`
	RequesterName   *string             `json:"tercero_nombre"`
	RequesterEmail  *string             `json:"tercero_email"`
	SpecialistName  *string             `json:"especialista_nombre"`
	SpecialistEmail *string             `json:"especialista_email"`
	Description     *string             `json:"descripcion_caso"`
	Solution        *string             `json:"solucion_caso"`
	SecurityCode    *string             `json:"codigo_seguridad"`
	Attachments     []AttachmentRequest `json:"adjuntos"`
}

// RateTicketRequest carries the satisfaction survey answers.
type RateTicketRequest struct {
	ResponseTimeScore int    `json:"calificacion_tiempo_respuesta"`
	AttitudeScore     int    `json:"calificacion_actitud"`
	ResponseScore     int    `json:"calificacion_respuesta"`
	SolutionApproval  string `json:"aprobacion_solucion"`
}

// TicketResponse is the full wire form of a ticket.
type TicketResponse struct {
	ID                int64   `json:"id"`
	CreatedAt         string  `json:"fecha_creacion"`
	FinalizedAt       *string `json:"fecha_finalizacion"`
	Subject           string  `json:"tema"`
	Status            string  `json:"estado"`
	RequesterName     string  `json:"tercero_nombre"`
	RequesterEmail    string  `json:"tercero_email"`
	SpecialistName    string  `json:"especialista_nombre"`
	SpecialistEmail   string  `json:"especialista_email"`
	Description       string  `json:"descripcion_caso"`
	Solution          *string `json:"solucion_caso"`
	ResponseTimeScore *int    `json:"calificacion_tiempo_respuesta"`
	AttitudeScore     *int    `json:"calificacion_actitud"`
	ResponseScore     *int    `json:"calificacion_respuesta"`
	SecurityCode      *string `json:"codigo_seguridad"`
}

// TicketMutationResponse adds the names of attachments the store dropped.
type TicketMutationResponse struct {
	TicketResponse
	SkippedAttachments []string `json:"adjuntos_omitidos,omitempty"`
}

// AttachmentMetaResponse is attachment metadata without content.
type AttachmentMetaResponse struct {
	ID        int64  `json:"id"`
	TicketID  int64  `json:"ticket_id"`
	FileName  string `json:"nombre"`
	MimeType  string `json:"mime_type"`
	Role      string `json:"tipo"`
	CreatedAt string `json:"fecha_creacion"`
}

const wireTimeLayout = "2006-01-02 15:04:05"

// ToTicketResponse maps a domain ticket to its wire form.
func ToTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                t.ID,
		CreatedAt:         t.CreatedAt.Format(wireTimeLayout),
		FinalizedAt:       formatOptionalTime(t.FinalizedAt),
		Subject:           t.Subject,
		Status:            t.Status,
		RequesterName:     t.RequesterName,
		RequesterEmail:    t.RequesterEmail,
		SpecialistName:    t.SpecialistName,
		SpecialistEmail:   t.SpecialistEmail,
		Description:       t.Description,
		Solution:          t.Solution,
		ResponseTimeScore: t.ResponseTimeScore,
		AttitudeScore:     t.AttitudeScore,
		ResponseScore:     t.ResponseScore,
		SecurityCode:      t.SecurityCode,
	}
}

// ToTicketMutationResponse maps a service mutation result.
func ToTicketMutationResponse(result *service.TicketResult) TicketMutationResponse {
	return TicketMutationResponse{
		TicketResponse:     ToTicketResponse(result.Ticket),
		SkippedAttachments: result.SkippedAttachments,
	}
}

// ToTicketListResponse maps a ticket slice.
func ToTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ToTicketResponse(&tickets[i]))
	}
	return out
}

// ToAttachmentMetaResponse maps attachment metadata.
func ToAttachmentMetaResponse(a domain.Attachment) AttachmentMetaResponse {
	return AttachmentMetaResponse{
		ID:        a.ID,
		TicketID:  a.TicketID,
		FileName:  a.FileName,
		MimeType:  a.MimeType,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.Format(wireTimeLayout),
	}
}

// ToAttachmentMetaListResponse maps an attachment slice.
func ToAttachmentMetaListResponse(attachments []domain.Attachment) []AttachmentMetaResponse {
	out := make([]AttachmentMetaResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, ToAttachmentMetaResponse(a))
	}
	return out
}

// ToCreateInput converts the request to the service input.
func (r CreateTicketRequest) ToCreateInput() service.TicketCreateInput {
	return service.TicketCreateInput{
		Subject:         r.Subject,
		Status:          r.Status,
		RequesterName:   r.RequesterName,
		RequesterEmail:  r.RequesterEmail,
		SpecialistName:  r.SpecialistName,
		SpecialistEmail: r.SpecialistEmail,
		Description:     r.Description,
		Solution:        r.Solution,
		SecurityCode:    r.SecurityCode,
		Attachments:     toUploads(r.Attachments),
	}
}

// ToUpdateInput converts the request to the service input.
func (r UpdateTicketRequest) ToUpdateInput() service.TicketUpdateInput {
	return service.TicketUpdateInput{
		Subject:         r.Subject,
		Status:          r.Status,
		RequesterName:   r.RequesterName,
		RequesterEmail:  r.RequesterEmail,
		SpecialistName:  r.SpecialistName,
		SpecialistEmail: r.SpecialistEmail,
		Description:     r.Description,
		Solution:        r.Solution,
		SecurityCode:    r.SecurityCode,
		Attachments:     toUploads(r.Attachments),
	}
}

// ToRateInput converts the request to the service input.
func (r RateTicketRequest) ToRateInput() service.TicketRateInput {
	return service.TicketRateInput{
		ResponseTimeScore: r.ResponseTimeScore,
		AttitudeScore:     r.AttitudeScore,
		ResponseScore:     r.ResponseScore,
		SolutionApproval:  r.SolutionApproval,
	}
}

func toUploads(attachments []AttachmentRequest) []service.AttachmentUpload {
	uploads := make([]service.AttachmentUpload, 0, len(attachments))
	for _, a := range attachments {
		uploads = append(uploads, service.AttachmentUpload{
			FileName:      a.FileName,
			MimeType:      a.MimeType,
			ContentBase64: a.ContentBase64,
		})
	}
	return uploads
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(wireTimeLayout)
	return &formatted
}
