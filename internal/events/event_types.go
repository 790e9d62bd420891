package events

import (
	"time"

	"github.com/mintickets/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketFinalized EventType = "ticket_finalized"
	EventTicketRated     EventType = "ticket_rated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries the snapshot the case-summary mail needs.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// TicketFinalizedPayload carries the resolved ticket plus every response
// attachment stored for it, prior and new, for the resolution mail.
type TicketFinalizedPayload struct {
	Ticket      domain.Ticket       `json:"ticket"`
	Attachments []domain.Attachment `json:"-"`
}

// TicketRatedPayload records the survey outcome.
type TicketRatedPayload struct {
	Ticket            domain.Ticket `json:"ticket"`
	ResponseTimeScore int           `json:"response_time_score"`
	AttitudeScore     int           `json:"attitude_score"`
	ResponseScore     int           `json:"response_score"`
	SolutionApproved  bool          `json:"solution_approved"`
}
