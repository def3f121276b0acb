package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/auth"
	"github.com/spec-kit/community-portal/internal/domain"
	apperrors "github.com/spec-kit/community-portal/pkg/util"
)

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func optionalUser(c *fiber.Ctx) *domain.User {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.User
	}
	return nil
}

func isPrivileged(c *fiber.Ctx) bool {
	principal, ok := auth.PrincipalFromContext(c)
	return ok && principal.Role().IsPrivileged()
}

func isAdmin(c *fiber.Ctx) bool {
	principal, ok := auth.PrincipalFromContext(c)
	return ok && principal.Role() == domain.RoleAdmin
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func splitCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
