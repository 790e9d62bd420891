package domain

// Topic is a ticket subject category, optionally owned by a user.
type Topic struct {
	ID     int64
	Name   string
	UserID *int64
}

// Status is a configurable status label record.
type Status struct {
	ID     int64
	Name   string
	UserID *int64
}

// Tercero is the external party on whose behalf tickets are opened.
type Tercero struct {
	ID     int64
	Name   string
	Email  string
	UserID *int64
}
