package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/service"
)

func newApplicationFixture(t *testing.T) (*service.ApplicationService, *fakeApplicationRepo, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	apps := newFakeApplicationRepo(users)
	svc := service.NewApplicationService(service.ApplicationDependencies{ApplicationRepo: apps})
	return svc, apps, users
}

func TestSubmitApplication(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleUser)

	app, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{
		Position:   "moderator",
		Experience: "two years elsewhere",
		Reason:     "want to help",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusPending, app.Status)
	require.Equal(t, applicant.ID, app.UserID)
}

func TestSubmitRequiresPosition(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleUser)

	_, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: " "})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestSecondPendingApplicationRejected(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleUser)

	_, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "support"})
	requireDomainError(t, err, "VALIDATION_FAILED")
	require.Contains(t, err.Error(), "pending application exists")
}

func TestResolvedApplicationAllowsResubmission(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleUser)
	admin := seedUser(t, users, "root", domain.RoleAdmin)

	first, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), admin, first.ID, nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)
}

func TestApproveUpgradesRoleAndAddsRosterRow(t *testing.T) {
	svc, apps, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleUser)
	admin := seedUser(t, users, "root", domain.RoleAdmin)

	app, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)

	notes := "solid candidate"
	approved, err := svc.Approve(context.Background(), admin, app.ID, &notes)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusApproved, approved.Status)
	require.Equal(t, admin.ID, *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)
	require.Equal(t, notes, *approved.ReviewNotes)

	require.Equal(t, 1, apps.rosterInserts)
	require.Equal(t, 1, apps.roleUpgrades)

	upgraded, err := users.GetByID(context.Background(), applicant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleModerator, upgraded.Role)
}

func TestApproveDoesNotDowngradeExistingStaff(t *testing.T) {
	svc, apps, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleSupport)
	admin := seedUser(t, users, "root", domain.RoleAdmin)

	app, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), admin, app.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 0, apps.roleUpgrades)

	kept, err := users.GetByID(context.Background(), applicant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSupport, kept.Role)
}

func TestReviewIsTerminal(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	applicant := seedUser(t, users, "alice", domain.RoleUser)
	admin := seedUser(t, users, "root", domain.RoleAdmin)

	app, err := svc.Submit(context.Background(), applicant, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), admin, app.ID, nil)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), admin, app.ID, nil)
	requireDomainError(t, err, "CONFLICT")

	_, err = svc.Reject(context.Background(), admin, app.ID, nil)
	requireDomainError(t, err, "CONFLICT")
}

func TestReviewMissingApplication(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	admin := seedUser(t, users, "root", domain.RoleAdmin)

	_, err := svc.Approve(context.Background(), admin, "nope", nil)
	requireDomainError(t, err, "NOT_FOUND")
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _, users := newApplicationFixture(t)
	alice := seedUser(t, users, "alice", domain.RoleUser)
	bob := seedUser(t, users, "bob", domain.RoleUser)
	admin := seedUser(t, users, "root", domain.RoleAdmin)

	first, err := svc.Submit(context.Background(), alice, service.ApplicationSubmitInput{Position: "moderator"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), bob, service.ApplicationSubmitInput{Position: "support"})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), admin, first.ID, nil)
	require.NoError(t, err)

	pending, err := svc.List(context.Background(), []domain.ApplicationStatus{domain.ApplicationStatusPending}, 50, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, bob.ID, pending[0].UserID)

	mine, err := svc.ListOwn(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, domain.ApplicationStatusRejected, mine[0].Status)
}
