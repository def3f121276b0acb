package domain

import "time"

// MediaItem is a gallery entry. Only approved items appear publicly.
type MediaItem struct {
	ID           string
	UploaderID   string
	Title        string
	URL          string
	ThumbnailURL *string
	IsApproved   bool
	CreatedAt    time.Time
}
