package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/events"
	"github.com/spec-kit/community-portal/internal/repository"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// TicketService coordinates the support-ticket workflow.
type TicketService struct {
	tickets    repository.TicketRepository
	replies    repository.TicketReplyRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.TicketReplyRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject string
	Body    string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	AssignedTo *string
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a ticket for its owner.
func (s *TicketService) CreateTicket(ctx context.Context, owner *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", map[string]any{"field": "subject"})
	}

	ticket := &domain.Ticket{
		OwnerID: owner.ID,
		Subject: subject,
		Body:    strings.TrimSpace(input.Body),
		Status:  domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		ActorID:  owner.ID,
	})
	return ticket, nil
}

// ListOwnTickets returns the owner's tickets.
func (s *TicketService) ListOwnTickets(ctx context.Context, ownerID string, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		OwnerID:  &ownerID,
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAllTickets returns tickets across all owners; callers are expected to
// hold a privileged role.
func (s *TicketService) ListAllTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		AssignedTo: filter.AssignedTo,
		Statuses:   filter.Statuses,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its reply thread, enforcing the
// owner-or-privileged read rule. Closed tickets stay readable.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.TicketReply, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !ticket.CanView(actor.ID, actor.Role) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	replies, err := s.replies.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, replies, nil
}

// AddReply appends a reply. A staff reply to an open ticket flips it to
// processing atomically with the insert; closed tickets reject all replies.
func (s *TicketService) AddReply(ctx context.Context, actor *domain.User, ticketID, body string) (*domain.TicketReply, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", map[string]any{"field": "body"})
	}

	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.CanAct(actor.ID, actor.Role) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.IsClosed() {
		return nil, apperrors.NewConflict("ticket is closed", nil)
	}

	isStaff := actor.Role.IsPrivileged()
	transition := isStaff && ticket.Status == domain.TicketStatusOpen

	reply := &domain.TicketReply{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Body:     body,
		IsStaff:  isStaff,
	}
	if err := s.replies.Create(ctx, reply, transition); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketReplied,
		EntityID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketRepliedPayload{
			ReplyID:       reply.ID,
			IsStaff:       isStaff,
			BodyPreview:   preview(body, 120),
			TransitionRan: transition,
		},
	})
	return reply, nil
}

// AssignTicket assigns a privileged user and forces processing. A system
// reply records the assumption in the same thread as human replies.
func (s *TicketService) AssignTicket(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Role.IsPrivileged() {
		return nil, apperrors.NewValidationError("assignee is not staff", map[string]any{"user_id": assigneeID})
	}

	if err := s.tickets.Assign(ctx, ticketID, assignee.ID); err != nil {
		return nil, mapTicketWriteError(err)
	}

	systemReply := &domain.TicketReply{
		TicketID: ticketID,
		AuthorID: assignee.ID,
		Body:     fmt.Sprintf("%s assumed this ticket", assignee.Username),
		IsStaff:  true,
		IsSystem: true,
	}
	if err := s.replies.Create(ctx, systemReply, false); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		EntityID: ticketID,
		ActorID:  actor.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee.ID},
	})
	return s.fetch(ctx, ticketID)
}

// CloseTicket closes the ticket, recording who closed it and when. Closed is
// terminal.
func (s *TicketService) CloseTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.CanAct(actor.ID, actor.Role) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if err := s.tickets.Close(ctx, ticket.ID, actor.ID); err != nil {
		return nil, mapTicketWriteError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketClosed,
		EntityID: ticket.ID,
		ActorID:  actor.ID,
	})
	return s.fetch(ctx, ticket.ID)
}

func (s *TicketService) fetch(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapTicketWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTicketClosed):
		return apperrors.NewConflict("ticket is closed", nil)
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("ticket", nil)
	default:
		return apperrors.MapError(err)
	}
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
