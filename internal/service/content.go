package service

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

// htmlPolicy strips scripts and event handlers from user-supplied rich text
// before it reaches the store.
var htmlPolicy = bluemonday.UGCPolicy()

func sanitizeHTML(content string) string {
	return htmlPolicy.Sanitize(content)
}

// uniqueSlug derives a slug from the title and resolves collisions
// deterministically: slug, slug-2, slug-3, ...
func uniqueSlug(ctx context.Context, exists func(context.Context, string) (bool, error), title string) (string, error) {
	base := apperrors.Slugify(title)
	if base == "" {
		return "", apperrors.NewValidationError("title does not produce a valid slug", map[string]any{"field": "title"})
	}
	for attempt := 1; attempt <= 50; attempt++ {
		candidate := apperrors.DisambiguateSlug(base, attempt)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", apperrors.MapError(err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperrors.NewConflict("could not derive a unique slug", map[string]any{"slug": base})
}
