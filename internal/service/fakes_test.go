package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
)

// In-memory repository fakes. They mirror the conditional-update semantics of
// the SQL implementations so lifecycle tests exercise the same guarantees.

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email != nil && *user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByDiscordID(_ context.Context, discordID string) (*domain.User, error) {
	for _, user := range r.users {
		if user.DiscordID != nil && *user.DiscordID == discordID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if ticket, ok := r.tickets[id]; ok {
		clone := *ticket
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) Assign(_ context.Context, ticketID, assigneeID string) error {
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	if ticket.Status == domain.TicketStatusClosed {
		return repository.ErrTicketClosed
	}
	ticket.AssignedTo = &assigneeID
	ticket.Status = domain.TicketStatusProcessing
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) Close(_ context.Context, ticketID, closedBy string) error {
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	if ticket.Status == domain.TicketStatusClosed {
		return repository.ErrTicketClosed
	}
	now := time.Now()
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	ticket.ClosedBy = &closedBy
	ticket.UpdatedAt = now
	return nil
}

type fakeReplyRepo struct {
	seq     int
	replies map[string][]domain.TicketReply
	tickets *fakeTicketRepo
}

func newFakeReplyRepo(tickets *fakeTicketRepo) *fakeReplyRepo {
	return &fakeReplyRepo{replies: map[string][]domain.TicketReply{}, tickets: tickets}
}

func (r *fakeReplyRepo) Create(_ context.Context, reply *domain.TicketReply, transitionToProcessing bool) error {
	r.seq++
	reply.ID = fmt.Sprintf("reply-%d", r.seq)
	reply.CreatedAt = time.Now()
	r.replies[reply.TicketID] = append(r.replies[reply.TicketID], *reply)
	if transitionToProcessing {
		if ticket, ok := r.tickets.tickets[reply.TicketID]; ok && ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusProcessing
		}
	}
	return nil
}

func (r *fakeReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketReply, error) {
	return r.replies[ticketID], nil
}

type fakeApplicationRepo struct {
	seq  int
	apps map[string]*domain.StaffApplication

	rosterInserts int
	roleUpgrades  int
	users         *fakeUserRepo
}

func newFakeApplicationRepo(users *fakeUserRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*domain.StaffApplication{}, users: users}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.StaffApplication) error {
	for _, existing := range r.apps {
		if existing.UserID == app.UserID && existing.Status == domain.ApplicationStatusPending {
			return repository.ErrPendingApplicationExists
		}
	}
	r.seq++
	app.ID = fmt.Sprintf("app-%d", r.seq)
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.StaffApplication, error) {
	if app, ok := r.apps[id]; ok {
		clone := *app
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeApplicationRepo) ListWithFilter(_ context.Context, filter repository.ApplicationFilter) ([]domain.StaffApplication, error) {
	var result []domain.StaffApplication
	for _, app := range r.apps {
		if filter.UserID != nil && app.UserID != *filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsAppStatus(filter.Statuses, app.Status) {
			continue
		}
		result = append(result, *app)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) Approve(ctx context.Context, appID, reviewerID string, notes *string) (*domain.StaffApplication, error) {
	app, err := r.resolve(appID, reviewerID, notes, domain.ApplicationStatusApproved)
	if err != nil {
		return nil, err
	}
	r.rosterInserts++
	if applicant, ok := r.users.users[app.UserID]; ok && applicant.Role == domain.RoleUser {
		applicant.Role = domain.RoleModerator
		r.roleUpgrades++
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) Reject(_ context.Context, appID, reviewerID string, notes *string) (*domain.StaffApplication, error) {
	app, err := r.resolve(appID, reviewerID, notes, domain.ApplicationStatusRejected)
	if err != nil {
		return nil, err
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) resolve(appID, reviewerID string, notes *string, outcome domain.ApplicationStatus) (*domain.StaffApplication, error) {
	app, ok := r.apps[appID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, repository.ErrApplicationResolved
	}
	now := time.Now()
	app.Status = outcome
	app.ReviewedBy = &reviewerID
	app.ReviewedAt = &now
	app.ReviewNotes = notes
	app.UpdatedAt = now
	return app, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsAppStatus(statuses []domain.ApplicationStatus, status domain.ApplicationStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
