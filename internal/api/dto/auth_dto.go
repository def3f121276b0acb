package dto

import (
	"time"

	"github.com/spec-kit/community-portal/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID              string      `json:"id"`
	Username        string      `json:"username"`
	Email           *string     `json:"email,omitempty"`
	Role            domain.Role `json:"role"`
	DiscordUsername *string     `json:"discord_username,omitempty"`
	AvatarURL       *string     `json:"avatar_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// SessionResponse is returned by login-type endpoints.
type SessionResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		DiscordUsername: user.DiscordUsername,
		AvatarURL:       user.AvatarURL,
		CreatedAt:       user.CreatedAt,
	}
}
