package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/community-portal/internal/domain"
	"github.com/spec-kit/community-portal/internal/repository"
	"github.com/spec-kit/community-portal/internal/service"
)

type fakeNewsRepo struct {
	seq        int
	categories map[string]*domain.NewsCategory
	articles   map[string]*domain.NewsArticle
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{
		categories: map[string]*domain.NewsCategory{},
		articles:   map[string]*domain.NewsArticle{},
	}
}

func (r *fakeNewsRepo) CreateCategory(_ context.Context, category *domain.NewsCategory) error {
	r.seq++
	category.ID = fmt.Sprintf("cat-%d", r.seq)
	category.CreatedAt = time.Now()
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeNewsRepo) ListCategories(context.Context) ([]domain.NewsCategory, error) {
	var result []domain.NewsCategory
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

func (r *fakeNewsRepo) DeleteCategory(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeNewsRepo) CreateArticle(_ context.Context, article *domain.NewsArticle) error {
	r.seq++
	article.ID = fmt.Sprintf("article-%d", r.seq)
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *fakeNewsRepo) UpdateArticle(_ context.Context, article *domain.NewsArticle) error {
	if _, ok := r.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	article.UpdatedAt = time.Now()
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *fakeNewsRepo) DeleteArticle(_ context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.articles, id)
	return nil
}

func (r *fakeNewsRepo) GetArticleByID(_ context.Context, id string) (*domain.NewsArticle, error) {
	if article, ok := r.articles[id]; ok {
		clone := *article
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeNewsRepo) GetArticleBySlug(_ context.Context, slug string) (*domain.NewsArticle, error) {
	for _, article := range r.articles {
		if article.Slug == slug {
			clone := *article
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeNewsRepo) ListArticles(_ context.Context, filter repository.NewsFilter) ([]domain.NewsArticle, error) {
	var result []domain.NewsArticle
	for _, article := range r.articles {
		if filter.PublishedOnly && !article.IsPublished {
			continue
		}
		if filter.CategoryID != nil && (article.CategoryID == nil || *article.CategoryID != *filter.CategoryID) {
			continue
		}
		result = append(result, *article)
	}
	return result, nil
}

func (r *fakeNewsRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, article := range r.articles {
		if article.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeCharacterRepo struct {
	seq        int
	characters map[string]*domain.Character
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{characters: map[string]*domain.Character{}}
}

func (r *fakeCharacterRepo) Create(_ context.Context, character *domain.Character) error {
	r.seq++
	character.ID = fmt.Sprintf("char-%d", r.seq)
	character.CreatedAt = time.Now()
	character.UpdatedAt = character.CreatedAt
	clone := *character
	r.characters[character.ID] = &clone
	return nil
}

func (r *fakeCharacterRepo) Update(_ context.Context, character *domain.Character) error {
	if _, ok := r.characters[character.ID]; !ok {
		return pgx.ErrNoRows
	}
	character.UpdatedAt = time.Now()
	clone := *character
	r.characters[character.ID] = &clone
	return nil
}

func (r *fakeCharacterRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.characters[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.characters, id)
	return nil
}

func (r *fakeCharacterRepo) GetByID(_ context.Context, id string) (*domain.Character, error) {
	if character, ok := r.characters[id]; ok {
		clone := *character
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCharacterRepo) GetBySlug(_ context.Context, slug string) (*domain.Character, error) {
	for _, character := range r.characters {
		if character.Slug == slug {
			clone := *character
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCharacterRepo) ListPublic(_ context.Context, _, _ int) ([]domain.Character, error) {
	var result []domain.Character
	for _, character := range r.characters {
		if character.IsPublic {
			result = append(result, *character)
		}
	}
	return result, nil
}

func (r *fakeCharacterRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Character, error) {
	var result []domain.Character
	for _, character := range r.characters {
		if character.OwnerID == ownerID {
			result = append(result, *character)
		}
	}
	return result, nil
}

func (r *fakeCharacterRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, character := range r.characters {
		if character.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateArticleDerivesSlugAndSanitizes(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := service.NewNewsService(repo)
	author := &domain.User{ID: "user-1", Role: domain.RoleAdmin}

	article, err := svc.CreateArticle(context.Background(), author, service.NewsArticleInput{
		Title:       "Server Update: March!",
		Content:     `<p>Hello</p><script>alert("x")</script>`,
		IsPublished: true,
	})
	require.NoError(t, err)
	require.Equal(t, "server-update-march", article.Slug)
	require.Contains(t, article.Content, "<p>Hello</p>")
	require.NotContains(t, article.Content, "<script>")
	require.NotNil(t, article.PublishedAt)
}

func TestCreateArticleDisambiguatesSlugCollisions(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := service.NewNewsService(repo)
	author := &domain.User{ID: "user-1", Role: domain.RoleAdmin}

	first, err := svc.CreateArticle(context.Background(), author, service.NewsArticleInput{Title: "Patch Notes"})
	require.NoError(t, err)
	require.Equal(t, "patch-notes", first.Slug)

	second, err := svc.CreateArticle(context.Background(), author, service.NewsArticleInput{Title: "Patch Notes"})
	require.NoError(t, err)
	require.Equal(t, "patch-notes-2", second.Slug)

	third, err := svc.CreateArticle(context.Background(), author, service.NewsArticleInput{Title: "Patch Notes"})
	require.NoError(t, err)
	require.Equal(t, "patch-notes-3", third.Slug)
}

func TestDraftArticlesHiddenFromPublic(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := service.NewNewsService(repo)
	author := &domain.User{ID: "user-1", Role: domain.RoleAdmin}

	draft, err := svc.CreateArticle(context.Background(), author, service.NewsArticleInput{Title: "WIP"})
	require.NoError(t, err)
	require.False(t, draft.IsPublished)

	public, err := svc.ListArticles(context.Background(), nil, false, 20, 0)
	require.NoError(t, err)
	require.Empty(t, public)

	_, err = svc.GetArticleBySlug(context.Background(), draft.Slug, false)
	requireDomainError(t, err, "NOT_FOUND")

	adminView, err := svc.GetArticleBySlug(context.Background(), draft.Slug, true)
	require.NoError(t, err)
	require.Equal(t, draft.ID, adminView.ID)
}

func TestPublishingStampsPublishedAtOnce(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := service.NewNewsService(repo)
	author := &domain.User{ID: "user-1", Role: domain.RoleAdmin}

	draft, err := svc.CreateArticle(context.Background(), author, service.NewsArticleInput{Title: "Soon"})
	require.NoError(t, err)
	require.Nil(t, draft.PublishedAt)

	published, err := svc.UpdateArticle(context.Background(), draft.ID, service.NewsArticleInput{
		Title:       "Soon",
		IsPublished: true,
	})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	stamp := *published.PublishedAt

	again, err := svc.UpdateArticle(context.Background(), draft.ID, service.NewsArticleInput{
		Title:       "Soon",
		IsPublished: true,
	})
	require.NoError(t, err)
	require.Equal(t, stamp, *again.PublishedAt)
}

func TestPrivateCharacterVisibleOnlyToOwnerAndStaff(t *testing.T) {
	repo := newFakeCharacterRepo()
	svc := service.NewCharacterService(repo)
	owner := &domain.User{ID: "user-1", Role: domain.RoleUser}
	stranger := &domain.User{ID: "user-2", Role: domain.RoleUser}
	staff := &domain.User{ID: "user-3", Role: domain.RoleModerator}

	character, err := svc.Create(context.Background(), owner, service.CharacterInput{
		Name:      "Vera Kane",
		Backstory: "<em>ex-detective</em>",
		IsPublic:  false,
	})
	require.NoError(t, err)
	require.Equal(t, "vera-kane", character.Slug)

	_, err = svc.GetBySlug(context.Background(), nil, character.Slug)
	requireDomainError(t, err, "NOT_FOUND")

	_, err = svc.GetBySlug(context.Background(), stranger, character.Slug)
	requireDomainError(t, err, "NOT_FOUND")

	got, err := svc.GetBySlug(context.Background(), owner, character.Slug)
	require.NoError(t, err)
	require.Equal(t, character.ID, got.ID)

	got, err = svc.GetBySlug(context.Background(), staff, character.Slug)
	require.NoError(t, err)
	require.Equal(t, character.ID, got.ID)

	public, err := svc.ListPublic(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Empty(t, public)
}

func TestCharacterEditRestrictedToOwnerOrPrivileged(t *testing.T) {
	repo := newFakeCharacterRepo()
	svc := service.NewCharacterService(repo)
	owner := &domain.User{ID: "user-1", Role: domain.RoleUser}
	stranger := &domain.User{ID: "user-2", Role: domain.RoleUser}
	admin := &domain.User{ID: "user-3", Role: domain.RoleAdmin}

	character, err := svc.Create(context.Background(), owner, service.CharacterInput{Name: "Vera", IsPublic: true})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), stranger, character.ID, service.CharacterInput{Name: "Hijacked"})
	requireDomainError(t, err, "FORBIDDEN")

	err = svc.Delete(context.Background(), stranger, character.ID)
	requireDomainError(t, err, "FORBIDDEN")

	updated, err := svc.Update(context.Background(), admin, character.ID, service.CharacterInput{Name: "Vera K", IsPublic: true})
	require.NoError(t, err)
	require.Equal(t, "Vera K", updated.Name)
	// Slug stays fixed once minted.
	require.Equal(t, character.Slug, updated.Slug)

	require.NoError(t, svc.Delete(context.Background(), owner, character.ID))
}
