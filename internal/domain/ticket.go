package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusProcessing TicketStatus = "processing"
	TicketStatusClosed     TicketStatus = "closed"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID         string
	OwnerID    string
	Subject    string
	Body       string
	Status     TicketStatus
	AssignedTo *string
	ClosedAt   *time.Time
	ClosedBy   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsClosed reports whether the ticket reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// CanView reports whether the actor may read the ticket. Read access follows
// the same owner-or-privileged rule as writes but is checked independently;
// closing never revokes the owner's read access.
func (t *Ticket) CanView(actorID string, role Role) bool {
	return t.OwnerID == actorID || role.IsPrivileged()
}

// CanAct reports whether the actor may reply to or close the ticket.
func (t *Ticket) CanAct(actorID string, role Role) bool {
	return t.OwnerID == actorID || role.IsPrivileged()
}

// TicketReply is one entry in a ticket's append-only thread. System replies
// record workflow side effects (assignment) in the same log as human replies.
type TicketReply struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	IsStaff   bool
	IsSystem  bool
	CreatedAt time.Time
}
