package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketReplied        EventType = "ticket_replied"
	EventTicketAssigned       EventType = "ticket_assigned"
	EventTicketClosed         EventType = "ticket_closed"
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationReviewed  EventType = "application_reviewed"
)

// Event represents a domain event emitted by services. EntityID is the id of
// the ticket or application the event concerns; ActorID the acting user.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketRepliedPayload payload.
type TicketRepliedPayload struct {
	ReplyID       string `json:"reply_id"`
	IsStaff       bool   `json:"is_staff"`
	IsSystem      bool   `json:"is_system"`
	NewStatus     string `json:"new_status,omitempty"`
	BodyPreview   string `json:"body_preview"`
	TransitionRan bool   `json:"transition_ran"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// ApplicationReviewedPayload payload.
type ApplicationReviewedPayload struct {
	Outcome    string `json:"outcome"`
	ReviewerID string `json:"reviewer_id"`
}
