package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/events"
	"github.com/mintickets/helpdesk/internal/repository"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// TicketService owns the ticket lifecycle: creation, partial update,
// finalization, rating, deletion, and attachment access.
type TicketService struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	store       *AttachmentStore
	dispatcher  events.Dispatcher
	location    *time.Location
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	AttachmentRepo repository.AttachmentRepository
	Store          *AttachmentStore
	Dispatcher     events.Dispatcher
	Location       *time.Location
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		attachments: deps.AttachmentRepo,
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
		location:    loc,
		now:         time.Now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject         string
	Status          string
	RequesterName   string
	RequesterEmail  string
	SpecialistName  string
	SpecialistEmail string
	Description     string
	Solution        *string
	SecurityCode    *string
	Attachments     []AttachmentUpload
}

// TicketUpdateInput is a sparse update: nil means "leave the field alone".
type TicketUpdateInput struct {
	Subject         *string
	Status          *string
	RequesterName   *string
	RequesterEmail  *string
	SpecialistName  *string
	SpecialistEmail *string
	Description     *string
	Solution        *string
	SecurityCode    *string
	Attachments     []AttachmentUpload
}

// TicketRateInput carries the post-resolution survey answers.
type TicketRateInput struct {
	ResponseTimeScore int
	AttitudeScore     int
	ResponseScore     int
	// SolutionApproval is the literal survey answer; "No" returns the ticket.
	SolutionApproval string
}

// TicketResult pairs a ticket with the attachment names a policy dropped.
type TicketResult struct {
	Ticket             *domain.Ticket
	SkippedAttachments []string
}

// Create validates required fields, stamps the creation time in the
// configured zone, persists the ticket with its description attachments, and
// emits the creation event for the notification mail.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*TicketResult, error) {
	required := []struct {
		field string
		value string
	}{
		{"tema", input.Subject},
		{"estado", input.Status},
		{"tercero_nombre", input.RequesterName},
		{"tercero_email", input.RequesterEmail},
		{"especialista_nombre", input.SpecialistName},
		{"especialista_email", input.SpecialistEmail},
		{"descripcion_caso", input.Description},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return nil, apperrors.NewMissingFieldError(req.field)
		}
	}
	if err := s.store.ValidateBatch(input.Attachments); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		CreatedAt:       s.now().In(s.location),
		Subject:         strings.TrimSpace(input.Subject),
		Status:          strings.TrimSpace(input.Status),
		RequesterName:   input.RequesterName,
		RequesterEmail:  input.RequesterEmail,
		SpecialistName:  input.SpecialistName,
		SpecialistEmail: input.SpecialistEmail,
		Description:     input.Description,
		Solution:        input.Solution,
		SecurityCode:    input.SecurityCode,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	batch := s.store.PutBatch(ctx, ticket.ID, domain.AttachmentRoleDescription, input.Attachments)

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Ticket: *ticket},
	})
	return &TicketResult{Ticket: ticket, SkippedAttachments: batch.Skipped}, nil
}

// Update applies a sparse field set to an existing ticket. The finalization
// timestamp tracks the status: it is stamped when the update moves the
// ticket into a closed state and cleared when it moves back out of one.
func (s *TicketService) Update(ctx context.Context, id int64, input TicketUpdateInput) (*TicketResult, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.ValidateBatch(input.Attachments); err != nil {
		return nil, err
	}

	applyTicketUpdate(ticket, input)
	s.syncFinalizedAt(ticket)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	batch := s.store.PutBatch(ctx, ticket.ID, domain.AttachmentRoleResponse, input.Attachments)
	return &TicketResult{Ticket: ticket, SkippedAttachments: batch.Skipped}, nil
}

// Finalize marks a ticket solved regardless of its prior state, stores any
// new response attachments, and emits the resolution event carrying every
// response attachment stored for the ticket so the mail includes all of them.
func (s *TicketService) Finalize(ctx context.Context, id int64, input TicketUpdateInput) (*TicketResult, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.ValidateBatch(input.Attachments); err != nil {
		return nil, err
	}

	applyTicketUpdate(ticket, input)
	ticket.Status = domain.TicketStatusSolved
	finalized := s.now().In(s.location)
	ticket.FinalizedAt = &finalized

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	batch := s.store.PutBatch(ctx, ticket.ID, domain.AttachmentRoleResponse, input.Attachments)

	responses, err := s.attachments.ListByTicket(ctx, domain.AttachmentRoleResponse, ticket.ID)
	if err != nil {
		// The state change already committed; the mail just loses its files.
		responses = batch.Stored
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketFinalized,
		TicketID: ticket.ID,
		Payload:  events.TicketFinalizedPayload{Ticket: *ticket, Attachments: responses},
	})
	return &TicketResult{Ticket: ticket, SkippedAttachments: batch.Skipped}, nil
}

// Rate stores the survey scores. An explicit "No" on solution approval
// returns the ticket, overriding the solved state finalize set.
func (s *TicketService) Rate(ctx context.Context, id int64, input TicketRateInput) (*domain.Ticket, error) {
	scores := []struct {
		field string
		value int
	}{
		{"calificacion_tiempo_respuesta", input.ResponseTimeScore},
		{"calificacion_actitud", input.AttitudeScore},
		{"calificacion_respuesta", input.ResponseScore},
	}
	for _, score := range scores {
		if score.value < 1 || score.value > 5 {
			return nil, apperrors.NewValidationError(
				"la calificación debe estar entre 1 y 5",
				map[string]any{"field": score.field, "value": score.value},
			)
		}
	}

	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	ticket.ResponseTimeScore = &input.ResponseTimeScore
	ticket.AttitudeScore = &input.AttitudeScore
	ticket.ResponseScore = &input.ResponseScore

	approved := !strings.EqualFold(strings.TrimSpace(input.SolutionApproval), "No")
	if !approved {
		ticket.Status = domain.TicketStatusReturned
		if ticket.FinalizedAt == nil {
			finalized := s.now().In(s.location)
			ticket.FinalizedAt = &finalized
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticket.ID,
		Payload: events.TicketRatedPayload{
			Ticket:            *ticket,
			ResponseTimeScore: input.ResponseTimeScore,
			AttitudeScore:     input.AttitudeScore,
			ResponseScore:     input.ResponseScore,
			SolutionApproved:  approved,
		},
	})
	return ticket, nil
}

// List returns every ticket, newest first.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// Get fetches one ticket.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.getTicket(ctx, id)
}

// Delete removes a ticket and all attachments it owns. Rows go atomically;
// the mirror directory is cleaned up after, best-effort.
func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return err
	}
	s.store.RemoveMirror(id)
	return nil
}

// ListAttachments returns attachment metadata for a ticket, both roles,
// without content. A ticket with zero uploads yields an empty list.
func (s *TicketService) ListAttachments(ctx context.Context, id int64) ([]domain.Attachment, error) {
	if _, err := s.getTicket(ctx, id); err != nil {
		return nil, err
	}
	return s.attachments.ListMetaByTicket(ctx, id)
}

// DownloadAttachment fetches one attachment with content. Ids are scoped per
// role table, so the description store is probed first, then the response
// store; that order must hold because an id can exist in both.
func (s *TicketService) DownloadAttachment(ctx context.Context, id int64) (*domain.Attachment, error) {
	attachment, err := s.attachments.GetByID(ctx, domain.AttachmentRoleDescription, id)
	if err == nil {
		return attachment, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	attachment, err = s.attachments.GetByID(ctx, domain.AttachmentRoleResponse, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("attachment", map[string]any{"id": id})
		}
		return nil, err
	}
	return attachment, nil
}

func (s *TicketService) getTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) syncFinalizedAt(ticket *domain.Ticket) {
	closed := domain.IsClosedStatus(ticket.Status)
	switch {
	case closed && ticket.FinalizedAt == nil:
		finalized := s.now().In(s.location)
		ticket.FinalizedAt = &finalized
	case !closed && ticket.FinalizedAt != nil:
		ticket.FinalizedAt = nil
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func applyTicketUpdate(ticket *domain.Ticket, input TicketUpdateInput) {
	if input.Subject != nil {
		ticket.Subject = *input.Subject
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.RequesterName != nil {
		ticket.RequesterName = *input.RequesterName
	}
	if input.RequesterEmail != nil {
		ticket.RequesterEmail = *input.RequesterEmail
	}
	if input.SpecialistName != nil {
		ticket.SpecialistName = *input.SpecialistName
	}
	if input.SpecialistEmail != nil {
		ticket.SpecialistEmail = *input.SpecialistEmail
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Solution != nil {
		ticket.Solution = input.Solution
	}
	if input.SecurityCode != nil {
		ticket.SecurityCode = input.SecurityCode
	}
}
