package domain

import "time"

// ServerStatus is a snapshot of the external game server's state. Stale marks
// a cached snapshot served because the live fetch failed.
type ServerStatus struct {
	Online      bool      `json:"online"`
	PlayerCount int       `json:"player_count"`
	MaxPlayers  int       `json:"max_players"`
	MapName     string    `json:"map_name,omitempty"`
	Players     []string  `json:"players,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	Stale       bool      `json:"stale"`
}
