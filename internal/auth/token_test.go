package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/community-portal/internal/auth"
	"github.com/spec-kit/community-portal/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", 60)
	user := &domain.User{ID: "user-1", Username: "alice", Role: domain.RoleModerator}

	token, expiresAt, err := tm.GenerateToken(user, "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, domain.RoleModerator, claims.Role)
	require.Equal(t, "session-1", claims.RegisteredClaims.ID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := auth.NewTokenManager("secret", 60)
	other := auth.NewTokenManager("different", 60)
	user := &domain.User{ID: "user-1", Username: "alice", Role: domain.RoleUser}

	token, _, err := tm.GenerateToken(user, "session-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("secret", 60)
	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", 60)

	state, err := tm.GenerateState("nonce-1")
	require.NoError(t, err)

	nonce, err := tm.ValidateState(state)
	require.NoError(t, err)
	require.Equal(t, "nonce-1", nonce)

	_, err = tm.ValidateState("tampered")
	require.Error(t, err)
}
