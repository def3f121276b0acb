package domain

import "time"

// Setting is an admin-configurable key/value pair. The live status snapshot
// cache deliberately does not live here; it has its own store.
type Setting struct {
	Key       string
	Value     string
	Category  string
	UpdatedAt time.Time
}
