package dto

import "github.com/mintickets/helpdesk/internal/domain"

// TopicRequest creates or renames a subject category.
type TopicRequest struct {
	Name   string `json:"nombre"`
	UserID *int64 `json:"user_id"`
}

// StatusRequest creates or renames a status label.
type StatusRequest struct {
	Name   string `json:"nombre"`
	UserID *int64 `json:"user_id"`
}

// TerceroRequest creates or edits an external requester record.
type TerceroRequest struct {
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	UserID *int64 `json:"user_id"`
}

// TopicResponse is the wire form of a topic.
type TopicResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"nombre"`
	UserID *int64 `json:"user_id"`
}

// StatusResponse is the wire form of a status label.
type StatusResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"nombre"`
	UserID *int64 `json:"user_id"`
}

// TerceroResponse is the wire form of a tercero.
type TerceroResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	UserID *int64 `json:"user_id"`
}

// ToTopicResponse maps a topic.
func ToTopicResponse(t domain.Topic) TopicResponse {
	return TopicResponse{ID: t.ID, Name: t.Name, UserID: t.UserID}
}

// ToTopicListResponse maps a topic slice.
func ToTopicListResponse(topics []domain.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, ToTopicResponse(t))
	}
	return out
}

// ToStatusResponse maps a status label.
func ToStatusResponse(s domain.Status) StatusResponse {
	return StatusResponse{ID: s.ID, Name: s.Name, UserID: s.UserID}
}

// ToStatusListResponse maps a status slice.
func ToStatusListResponse(statuses []domain.Status) []StatusResponse {
	out := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, ToStatusResponse(s))
	}
	return out
}

// ToTerceroResponse maps a tercero.
func ToTerceroResponse(t domain.Tercero) TerceroResponse {
	return TerceroResponse{ID: t.ID, Name: t.Name, Email: t.Email, UserID: t.UserID}
}

// ToTerceroListResponse maps a tercero slice.
func ToTerceroListResponse(terceros []domain.Tercero) []TerceroResponse {
	out := make([]TerceroResponse, 0, len(terceros))
	for _, t := range terceros {
		out = append(out, ToTerceroResponse(t))
	}
	return out
}
