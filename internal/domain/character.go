package domain

import "time"

// Character is a roleplay character sheet. Owners manage their own entries;
// only public characters appear in the viewer.
type Character struct {
	ID        string
	OwnerID   string
	Name      string
	Slug      string
	Backstory string
	AvatarURL *string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
