package domain

import "time"

// AttachmentRole classifies an upload as part of the problem description or
// part of the specialist response. Roles map to separate tables, so ids are
// unique per role, not globally.
type AttachmentRole string

const (
	AttachmentRoleDescription AttachmentRole = "descripcion"
	AttachmentRoleResponse    AttachmentRole = "respuesta"
)

// Attachment is a binary file owned by exactly one ticket. The database blob
// is authoritative; the filesystem mirror is a best-effort derived copy.
type Attachment struct {
	ID        int64
	TicketID  int64
	FileName  string
	MimeType  string
	Content   []byte
	Role      AttachmentRole
	CreatedAt time.Time
}
