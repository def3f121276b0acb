package domain

import "time"

// Role enumerates portal roles. Privileged roles may act on any ticket.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleSupport   Role = "support"
	RoleAdmin     Role = "admin"
)

// IsPrivileged reports whether the role may act on other users' tickets.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleModerator || r == RoleSupport
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for portal members. A user authenticates either
// with local credentials (PasswordHash) or a linked Discord identity, or both.
type User struct {
	ID              string
	Username        string
	Email           *string
	PasswordHash    *string
	Role            Role
	DiscordID       *string
	DiscordUsername *string
	AvatarURL       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocalCredentials reports whether password login is possible.
func (u *User) HasLocalCredentials() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
