package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/service"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

func newTicketFixture(t *testing.T) (*service.TicketService, *fakeTicketRepo, *fakeReplyRepo, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tickets := newFakeTicketRepo()
	replies := newFakeReplyRepo(tickets)
	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: tickets,
		ReplyRepo:  replies,
		UserRepo:   users,
	})
	return svc, tickets, replies, users
}

func seedUser(t *testing.T, users *fakeUserRepo, username string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Role: role}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestCreateTicketStartsOpen(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{
		Subject: "cannot connect",
		Body:    "auth loop on join",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.Equal(t, owner.ID, ticket.OwnerID)
}

func TestCreateTicketRequiresSubject(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)

	_, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "   "})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestStaffReplyTransitionsOpenToProcessing(t *testing.T) {
	svc, tickets, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)
	staff := seedUser(t, users, "bob", domain.RoleSupport)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	reply, err := svc.AddReply(context.Background(), staff, ticket.ID, "looking into it")
	require.NoError(t, err)
	require.True(t, reply.IsStaff)

	updated, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusProcessing, updated.Status)
}

func TestOwnerReplyDoesNotTransition(t *testing.T) {
	svc, tickets, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	reply, err := svc.AddReply(context.Background(), owner, ticket.ID, "any update?")
	require.NoError(t, err)
	require.False(t, reply.IsStaff)

	updated, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusOpen, updated.Status)
}

func TestClosedTicketRejectsReplies(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	_, err = svc.CloseTicket(context.Background(), owner, ticket.ID)
	require.NoError(t, err)

	_, err = svc.AddReply(context.Background(), owner, ticket.ID, "one more thing")
	requireDomainError(t, err, "CONFLICT")
}

func TestCloseIsTerminal(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)
	staff := seedUser(t, users, "bob", domain.RoleAdmin)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	closed, err := svc.CloseTicket(context.Background(), owner, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	require.Equal(t, owner.ID, *closed.ClosedBy)

	_, err = svc.CloseTicket(context.Background(), staff, ticket.ID)
	requireDomainError(t, err, "CONFLICT")

	_, err = svc.AssignTicket(context.Background(), staff, ticket.ID, staff.ID)
	requireDomainError(t, err, "CONFLICT")
}

func TestStrangerCannotViewOrActOnTicket(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)
	stranger := seedUser(t, users, "mallory", domain.RoleUser)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	_, _, err = svc.GetTicket(context.Background(), stranger, ticket.ID)
	requireDomainError(t, err, "FORBIDDEN")

	_, err = svc.AddReply(context.Background(), stranger, ticket.ID, "hi")
	requireDomainError(t, err, "FORBIDDEN")

	_, err = svc.CloseTicket(context.Background(), stranger, ticket.ID)
	requireDomainError(t, err, "FORBIDDEN")
}

func TestPrivilegedRolesCanActOnAnyTicket(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleSupport} {
		ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
		require.NoError(t, err)

		staff := seedUser(t, users, "staff-"+string(role), role)
		fetched, replies, err := svc.GetTicket(context.Background(), staff, ticket.ID)
		require.NoError(t, err)
		require.Equal(t, ticket.ID, fetched.ID)
		require.Empty(t, replies)

		_, err = svc.CloseTicket(context.Background(), staff, ticket.ID)
		require.NoError(t, err)
	}
}

func TestAssignForcesProcessingAndAppendsSystemReply(t *testing.T) {
	svc, _, replies, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)
	staff := seedUser(t, users, "bob", domain.RoleSupport)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	assigned, err := svc.AssignTicket(context.Background(), staff, ticket.ID, staff.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusProcessing, assigned.Status)
	require.Equal(t, staff.ID, *assigned.AssignedTo)

	thread, err := replies.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.True(t, thread[0].IsSystem)
	require.True(t, thread[0].IsStaff)
	require.Equal(t, "bob assumed this ticket", thread[0].Body)
}

func TestAssignRejectsUnprivilegedAssignee(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	owner := seedUser(t, users, "alice", domain.RoleUser)
	staff := seedUser(t, users, "bob", domain.RoleSupport)
	civilian := seedUser(t, users, "carol", domain.RoleUser)

	ticket, err := svc.CreateTicket(context.Background(), owner, service.TicketCreateInput{Subject: "help"})
	require.NoError(t, err)

	_, err = svc.AssignTicket(context.Background(), staff, ticket.ID, civilian.ID)
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestListOwnTicketsFiltersByOwner(t *testing.T) {
	svc, _, _, users := newTicketFixture(t)
	alice := seedUser(t, users, "alice", domain.RoleUser)
	bob := seedUser(t, users, "bob", domain.RoleUser)

	_, err := svc.CreateTicket(context.Background(), alice, service.TicketCreateInput{Subject: "a"})
	require.NoError(t, err)
	_, err = svc.CreateTicket(context.Background(), bob, service.TicketCreateInput{Subject: "b"})
	require.NoError(t, err)

	mine, err := svc.ListOwnTickets(context.Background(), alice.ID, service.TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, alice.ID, mine[0].OwnerID)

	all, err := svc.ListAllTickets(context.Background(), service.TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func requireDomainError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code)
}
