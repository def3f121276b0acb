package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/community-portal/internal/auth"
	"github.com/spec-kit/community-portal/internal/config"
	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// Session describes an established login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService coordinates registration, local login and the Discord flow.
// Both credential paths converge on the same session shape.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	sessions   *auth.SessionStore
	discord    auth.IdentityProvider
	bcryptCost int
	resetTTL   time.Duration
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Sessions          *auth.SessionStore
	Discord           auth.IdentityProvider
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		sessions:   deps.Sessions,
		discord:    deps.Discord,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		logger:     deps.Logger,
	}
}

// Register creates a local-credential account with the default role.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if email != "" {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, apperrors.NewConflict("email already registered", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: &hash,
		Role:         domain.RoleUser,
	}
	if email != "" {
		user.Email = &email
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.establishSession(ctx, user)
}

// Login authenticates local credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.HasLocalCredentials() {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.establishSession(ctx, user)
}

// DiscordAuthURL returns the provider redirect URL with a signed state.
func (s *AuthService) DiscordAuthURL() (string, error) {
	if s.discord == nil {
		return "", apperrors.NewValidationError("discord login not configured", nil)
	}
	state, err := s.tokenMgr.GenerateState(uuid.NewString())
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return s.discord.AuthCodeURL(state), nil
}

// LoginWithDiscord completes the OAuth handshake: an existing linked identity
// logs in, an unknown one provisions a fresh user with the default role.
func (s *AuthService) LoginWithDiscord(ctx context.Context, state, code string) (*Session, error) {
	if s.discord == nil {
		return nil, apperrors.NewValidationError("discord login not configured", nil)
	}
	if _, err := s.tokenMgr.ValidateState(state); err != nil {
		return nil, apperrors.NewUnauthorized("invalid oauth state")
	}

	identity, err := s.discord.FetchIdentity(ctx, code)
	if err != nil {
		return nil, apperrors.NewDomainError("OAUTH_FAILED", "discord login failed", 502, nil)
	}

	user, err := s.users.GetByDiscordID(ctx, identity.ID)
	switch {
	case err == nil:
		user.DiscordUsername = &identity.Username
		if identity.Avatar != "" {
			avatarURL := discordAvatarURL(identity)
			user.AvatarURL = &avatarURL
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, apperrors.MapError(err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		user, err = s.provisionDiscordUser(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.MapError(err)
	}

	return s.establishSession(ctx, user)
}

func (s *AuthService) provisionDiscordUser(ctx context.Context, identity *auth.DiscordIdentity) (*domain.User, error) {
	username := identity.Username
	for attempt := 1; ; attempt++ {
		candidate := username
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", username, attempt)
		}
		if _, err := s.users.GetByUsername(ctx, candidate); errors.Is(err, pgx.ErrNoRows) {
			username = candidate
			break
		} else if err != nil {
			return nil, apperrors.MapError(err)
		}
		if attempt >= 20 {
			return nil, apperrors.NewConflict("unable to derive a unique username", nil)
		}
	}

	user := &domain.User{
		Username:        username,
		Role:            domain.RoleUser,
		DiscordID:       &identity.ID,
		DiscordUsername: &identity.Username,
	}
	if identity.Email != "" {
		email := identity.Email
		user.Email = &email
	}
	if identity.Avatar != "" {
		avatarURL := discordAvatarURL(identity)
		user.AvatarURL = &avatarURL
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Logout revokes the session behind the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	return s.sessions.Revoke(ctx, claims.RegisteredClaims.ID)
}

// ChangePassword verifies the current password before updating.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !user.HasLocalCredentials() {
		return apperrors.NewValidationError("account has no local password", nil)
	}
	if err := auth.ComparePassword(*user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = &hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RequestPasswordReset persists a single-use reset token for the email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("token", nil)
		}
		return apperrors.MapError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = &hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// EnsureSeedAdmin creates the break-glass admin account through the normal
// users table when configured. This replaces a hard-coded credential bypass;
// the account is a regular row subject to the same audit trail.
func (s *AuthService) EnsureSeedAdmin(ctx context.Context, cfg config.SeedConfig) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := s.users.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Username:     cfg.AdminUsername,
		PasswordHash: &hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Warn("seeded break-glass admin account", zap.String("username", cfg.AdminUsername))
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) establishSession(ctx context.Context, user *domain.User) (*Session, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokenMgr.GenerateToken(user, sessionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.sessions.Save(ctx, sessionID, user.ID, s.tokenMgr.TTL()); err != nil && s.logger != nil {
		// Session tracking is best-effort; the token stands on its own.
		s.logger.Warn("failed to record session", zap.Error(err))
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func discordAvatarURL(identity *auth.DiscordIdentity) string {
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", identity.ID, identity.Avatar)
}
