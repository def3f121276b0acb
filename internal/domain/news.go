package domain

import "time"

// NewsCategory groups articles.
type NewsCategory struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// NewsArticle is a published or draft news post. Content is sanitized HTML.
type NewsArticle struct {
	ID            string
	CategoryID    *string
	AuthorID      string
	Title         string
	Slug          string
	Summary       string
	Content       string
	CoverImageURL *string
	IsPublished   bool
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
