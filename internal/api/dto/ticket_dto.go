package dto

import (
	"time"

	"github.com/spec-kit/community-portal/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CreateReplyRequest payload.
type CreateReplyRequest struct {
	Body string `json:"body"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketResponse summarizes a ticket.
type TicketResponse struct {
	ID         string              `json:"id"`
	OwnerID    string              `json:"owner_id"`
	Subject    string              `json:"subject"`
	Body       string              `json:"body"`
	Status     domain.TicketStatus `json:"status"`
	AssignedTo *string             `json:"assigned_to,omitempty"`
	ClosedAt   *time.Time          `json:"closed_at,omitempty"`
	ClosedBy   *string             `json:"closed_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// TicketDetailResponse carries the reply thread too.
type TicketDetailResponse struct {
	TicketResponse
	Replies []ReplyResponse `json:"replies"`
}

// ReplyResponse is one thread entry.
type ReplyResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	IsStaff   bool      `json:"is_staff"`
	IsSystem  bool      `json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         ticket.ID,
		OwnerID:    ticket.OwnerID,
		Subject:    ticket.Subject,
		Body:       ticket.Body,
		Status:     ticket.Status,
		AssignedTo: ticket.AssignedTo,
		ClosedAt:   ticket.ClosedAt,
		ClosedBy:   ticket.ClosedBy,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
	}
}

// NewReplyResponse maps a domain reply.
func NewReplyResponse(reply *domain.TicketReply) ReplyResponse {
	return ReplyResponse{
		ID:        reply.ID,
		TicketID:  reply.TicketID,
		AuthorID:  reply.AuthorID,
		Body:      reply.Body,
		IsStaff:   reply.IsStaff,
		IsSystem:  reply.IsSystem,
		CreatedAt: reply.CreatedAt,
	}
}

// NewTicketDetailResponse maps a ticket with its thread.
func NewTicketDetailResponse(ticket *domain.Ticket, replies []domain.TicketReply) TicketDetailResponse {
	resp := TicketDetailResponse{
		TicketResponse: NewTicketResponse(ticket),
		Replies:        make([]ReplyResponse, 0, len(replies)),
	}
	for i := range replies {
		resp.Replies = append(resp.Replies, NewReplyResponse(&replies[i]))
	}
	return resp
}
