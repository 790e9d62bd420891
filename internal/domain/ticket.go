package domain

import "time"

// Ticket status labels. Estado is stored as free text to match what the
// frontend submits; these are the three values the lifecycle itself assigns.
const (
	TicketStatusOpen     = "Abierto"
	TicketStatusSolved   = "Solucionado"
	TicketStatusReturned = "Devuelto"
)

// Ticket is the aggregate for support cases.
type Ticket struct {
	ID                int64
	CreatedAt         time.Time
	FinalizedAt       *time.Time
	Subject           string
	Status            string
	RequesterName     string
	RequesterEmail    string
	SpecialistName    string
	SpecialistEmail   string
	Description       string
	Solution          *string
	ResponseTimeScore *int
	AttitudeScore     *int
	ResponseScore     *int
	SecurityCode      *string
}

// IsClosedStatus reports whether a status label marks the ticket as closed.
// FinalizedAt must be set iff the ticket is in one of these states.
func IsClosedStatus(status string) bool {
	return status == TicketStatusSolved || status == TicketStatusReturned
}
