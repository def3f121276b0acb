package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/community-portal/internal/auth"
	"github.com/spec-kit/community-portal/internal/config"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
	"github.com/spec-kit/community-portal/internal/service"
)

type fakeResetRepo struct {
	seq    int
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.seq++
	token.ID = fmt.Sprintf("reset-%d", r.seq)
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.ID] = &clone
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			clone := *token
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	return nil
}

type fakeDiscordProvider struct {
	identity *auth.DiscordIdentity
	err      error
}

func (p *fakeDiscordProvider) AuthCodeURL(state string) string {
	return "https://discord.example/oauth?state=" + state
}

func (p *fakeDiscordProvider) FetchIdentity(_ context.Context, _ string) (*auth.DiscordIdentity, error) {
	return p.identity, p.err
}

func authTestConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLMinutes:       60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
}

func newAuthFixture(t *testing.T, discord auth.IdentityProvider) (*service.AuthService, *fakeUserRepo, *fakeResetRepo) {
	t.Helper()
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	svc := service.NewAuthService(authTestConfig(), service.AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		Sessions:          auth.NewSessionStore(nil),
		Discord:           discord,
		Logger:            zap.NewNop(),
	})
	return svc, users, resets
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	session, err := svc.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, domain.RoleUser, session.User.Role)

	login, err := svc.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)
	require.Equal(t, session.User.ID, login.User.ID)
	require.True(t, login.ExpiresAt.After(time.Now()))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	_, err := svc.Register(context.Background(), "alice", "", "pw")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "", "pw")
	requireDomainError(t, err, "CONFLICT")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	_, err := svc.Register(context.Background(), "alice", "", "correct")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	requireDomainError(t, err, "UNAUTHORIZED")

	_, err = svc.Login(context.Background(), "nobody", "whatever")
	requireDomainError(t, err, "UNAUTHORIZED")
}

func TestLoginRejectsDiscordOnlyAccount(t *testing.T) {
	provider := &fakeDiscordProvider{identity: &auth.DiscordIdentity{ID: "d-1", Username: "alice"}}
	svc, _, _ := newAuthFixture(t, provider)

	state := mintState(t, svc)
	_, err := svc.LoginWithDiscord(context.Background(), state, "code")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "anything")
	requireDomainError(t, err, "UNAUTHORIZED")
}

func TestDiscordLoginProvisionsNewUser(t *testing.T) {
	provider := &fakeDiscordProvider{identity: &auth.DiscordIdentity{
		ID:       "discord-123",
		Username: "gamer",
		Email:    "gamer@example.com",
		Avatar:   "abc",
	}}
	svc, users, _ := newAuthFixture(t, provider)

	session, err := svc.LoginWithDiscord(context.Background(), mintState(t, svc), "code")
	require.NoError(t, err)
	require.Equal(t, "gamer", session.User.Username)
	require.Equal(t, domain.RoleUser, session.User.Role)
	require.Equal(t, "discord-123", *session.User.DiscordID)
	require.NotNil(t, session.User.AvatarURL)

	stored, err := users.GetByDiscordID(context.Background(), "discord-123")
	require.NoError(t, err)
	require.Equal(t, session.User.ID, stored.ID)
}

func TestDiscordLoginReusesLinkedAccount(t *testing.T) {
	provider := &fakeDiscordProvider{identity: &auth.DiscordIdentity{ID: "discord-123", Username: "gamer"}}
	svc, _, _ := newAuthFixture(t, provider)

	first, err := svc.LoginWithDiscord(context.Background(), mintState(t, svc), "code")
	require.NoError(t, err)

	second, err := svc.LoginWithDiscord(context.Background(), mintState(t, svc), "code")
	require.NoError(t, err)
	require.Equal(t, first.User.ID, second.User.ID)
}

func TestDiscordProvisioningDisambiguatesUsername(t *testing.T) {
	provider := &fakeDiscordProvider{identity: &auth.DiscordIdentity{ID: "discord-456", Username: "alice"}}
	svc, _, _ := newAuthFixture(t, provider)

	_, err := svc.Register(context.Background(), "alice", "", "pw")
	require.NoError(t, err)

	session, err := svc.LoginWithDiscord(context.Background(), mintState(t, svc), "code")
	require.NoError(t, err)
	require.Equal(t, "alice-2", session.User.Username)
}

func TestDiscordLoginRejectsBadState(t *testing.T) {
	provider := &fakeDiscordProvider{identity: &auth.DiscordIdentity{ID: "d", Username: "u"}}
	svc, _, _ := newAuthFixture(t, provider)

	_, err := svc.LoginWithDiscord(context.Background(), "garbage", "code")
	requireDomainError(t, err, "UNAUTHORIZED")
}

func TestDiscordExchangeFailureMapsToGatewayError(t *testing.T) {
	provider := &fakeDiscordProvider{err: errors.New("exchange refused")}
	svc, _, _ := newAuthFixture(t, provider)

	_, err := svc.LoginWithDiscord(context.Background(), mintState(t, svc), "code")
	requireDomainError(t, err, "OAUTH_FAILED")
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	session, err := svc.Register(context.Background(), "alice", "", "oldpw")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), session.User.ID, "wrong", "newpw")
	requireDomainError(t, err, "UNAUTHORIZED")

	require.NoError(t, svc.ChangePassword(context.Background(), session.User.ID, "oldpw", "newpw"))

	_, err = svc.Login(context.Background(), "alice", "newpw")
	require.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "oldpw")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token.Token, "newpw"))

	_, err = svc.Login(context.Background(), "alice", "newpw")
	require.NoError(t, err)

	// Single use.
	err = svc.ConfirmPasswordReset(context.Background(), token.Token, "again")
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestEnsureSeedAdmin(t *testing.T) {
	svc, users, _ := newAuthFixture(t, nil)

	seed := config.SeedConfig{AdminUsername: "root", AdminPassword: "breakglass"}
	require.NoError(t, svc.EnsureSeedAdmin(context.Background(), seed))

	admin, err := users.GetByUsername(context.Background(), "root")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	// Idempotent.
	require.NoError(t, svc.EnsureSeedAdmin(context.Background(), seed))

	session, err := svc.Login(context.Background(), "root", "breakglass")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, session.User.Role)
}

func mintState(t *testing.T, svc *service.AuthService) string {
	t.Helper()
	state, err := svc.TokenManager().GenerateState("nonce")
	require.NoError(t, err)
	return state
}
