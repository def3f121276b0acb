package dto

import (
	"time"

	"github.com/spec-kit/community-portal/internal/domain"
)

// CategoryRequest payload.
type CategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// CategoryResponse maps a news category.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleRequest payload for create/update.
type ArticleRequest struct {
	CategoryID    *string `json:"category_id,omitempty"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug,omitempty"`
	Summary       string  `json:"summary"`
	Content       string  `json:"content"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	IsPublished   bool    `json:"is_published"`
}

// ArticleResponse maps a news article.
type ArticleResponse struct {
	ID            string     `json:"id"`
	CategoryID    *string    `json:"category_id,omitempty"`
	AuthorID      string     `json:"author_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Summary       string     `json:"summary"`
	Content       string     `json:"content"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	IsPublished   bool       `json:"is_published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// GuidelineRequest payload for create/update.
type GuidelineRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Content     string `json:"content"`
	SortOrder   int    `json:"sort_order"`
	IsPublished bool   `json:"is_published"`
}

// GuidelineResponse maps a guideline.
type GuidelineResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	SortOrder   int       `json:"sort_order"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StaffMemberRequest payload for roster create/update.
type StaffMemberRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Bio         string `json:"bio"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// StaffMemberResponse maps a roster entry.
type StaffMemberResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MediaSubmitRequest payload.
type MediaSubmitRequest struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// MediaItemResponse maps a gallery entry.
type MediaItemResponse struct {
	ID           string    `json:"id"`
	UploaderID   string    `json:"uploader_id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}

// CharacterRequest payload for create/update.
type CharacterRequest struct {
	Name      string  `json:"name"`
	Backstory string  `json:"backstory"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	IsPublic  bool    `json:"is_public"`
}

// CharacterResponse maps a character sheet.
type CharacterResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Backstory string    `json:"backstory"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingRequest payload.
type SettingRequest struct {
	Value    string `json:"value"`
	Category string `json:"category,omitempty"`
}

// SettingResponse maps a setting.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.NewsCategory) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
}

// NewArticleResponse maps a domain article.
func NewArticleResponse(article *domain.NewsArticle) ArticleResponse {
	return ArticleResponse{
		ID:            article.ID,
		CategoryID:    article.CategoryID,
		AuthorID:      article.AuthorID,
		Title:         article.Title,
		Slug:          article.Slug,
		Summary:       article.Summary,
		Content:       article.Content,
		CoverImageURL: article.CoverImageURL,
		IsPublished:   article.IsPublished,
		PublishedAt:   article.PublishedAt,
		CreatedAt:     article.CreatedAt,
		UpdatedAt:     article.UpdatedAt,
	}
}

// NewGuidelineResponse maps a domain guideline.
func NewGuidelineResponse(guideline *domain.Guideline) GuidelineResponse {
	return GuidelineResponse{
		ID:          guideline.ID,
		Type:        guideline.Type,
		Title:       guideline.Title,
		Slug:        guideline.Slug,
		Content:     guideline.Content,
		SortOrder:   guideline.SortOrder,
		IsPublished: guideline.IsPublished,
		CreatedAt:   guideline.CreatedAt,
		UpdatedAt:   guideline.UpdatedAt,
	}
}

// NewStaffMemberResponse maps a domain roster entry.
func NewStaffMemberResponse(member *domain.StaffMember) StaffMemberResponse {
	return StaffMemberResponse{
		ID:          member.ID,
		UserID:      member.UserID,
		DisplayName: member.DisplayName,
		Title:       member.Title,
		Bio:         member.Bio,
		SortOrder:   member.SortOrder,
		IsActive:    member.IsActive,
		CreatedAt:   member.CreatedAt,
	}
}

// NewMediaItemResponse maps a domain gallery entry.
func NewMediaItemResponse(item *domain.MediaItem) MediaItemResponse {
	return MediaItemResponse{
		ID:           item.ID,
		UploaderID:   item.UploaderID,
		Title:        item.Title,
		URL:          item.URL,
		ThumbnailURL: item.ThumbnailURL,
		IsApproved:   item.IsApproved,
		CreatedAt:    item.CreatedAt,
	}
}

// NewCharacterResponse maps a domain character.
func NewCharacterResponse(character *domain.Character) CharacterResponse {
	return CharacterResponse{
		ID:        character.ID,
		OwnerID:   character.OwnerID,
		Name:      character.Name,
		Slug:      character.Slug,
		Backstory: character.Backstory,
		AvatarURL: character.AvatarURL,
		IsPublic:  character.IsPublic,
		CreatedAt: character.CreatedAt,
		UpdatedAt: character.UpdatedAt,
	}
}

// NewSettingResponse maps a domain setting.
func NewSettingResponse(setting *domain.Setting) SettingResponse {
	return SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		Category:  setting.Category,
		UpdatedAt: setting.UpdatedAt,
	}
}
