package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/api/http/handlers"
	"github.com/spec-kit/community-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Applications   *handlers.ApplicationsHandler
	News           *handlers.NewsHandler
	Guidelines     *handlers.GuidelinesHandler
	Staff          *handlers.StaffHandler
	Media          *handlers.MediaHandler
	Characters     *handlers.CharactersHandler
	Settings       *handlers.SettingsHandler
	Status         *handlers.StatusHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/discord", cfg.Auth.DiscordRedirect)
	authGroup.Get("/discord/callback", cfg.Auth.DiscordCallback)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.ListOwn)
	tickets.Get("/all", auth.RequireStaff(), cfg.Tickets.ListAll)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.Assign)
	tickets.Post("/:id/close", cfg.Tickets.Close)

	applications := api.Group("/applications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	applications.Post("/", cfg.Applications.Submit)
	applications.Get("/mine", cfg.Applications.ListOwn)
	applications.Get("/", auth.RequireAdmin(), cfg.Applications.List)
	applications.Post("/:id/approve", auth.RequireAdmin(), cfg.Applications.Approve)
	applications.Post("/:id/reject", auth.RequireAdmin(), cfg.Applications.Reject)

	// Public reads resolve an optional principal so admins see drafts and
	// owners see their private characters.
	news := api.Group("/news", cfg.AuthMiddleware.Optional)
	news.Get("/categories", cfg.News.ListCategories)
	news.Get("/", cfg.News.ListArticles)
	news.Get("/:slug", cfg.News.GetArticle)

	guidelines := api.Group("/guidelines", cfg.AuthMiddleware.Optional)
	guidelines.Get("/", cfg.Guidelines.List)
	guidelines.Get("/:slug", cfg.Guidelines.Get)

	staff := api.Group("/staff", cfg.AuthMiddleware.Optional)
	staff.Get("/", cfg.Staff.List)

	media := api.Group("/media", cfg.AuthMiddleware.Optional)
	media.Get("/", cfg.Media.List)
	media.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Media.Submit)
	media.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Media.Delete)

	characters := api.Group("/characters", cfg.AuthMiddleware.Optional)
	characters.Get("/", cfg.Characters.ListPublic)
	characters.Get("/mine", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Characters.ListOwn)
	characters.Get("/:slug", cfg.Characters.Get)
	characters.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Characters.Create)
	characters.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Characters.Update)
	characters.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Characters.Delete)

	api.Get("/status", cfg.Status.Get)
	api.Get("/status/live", cfg.Status.Upgrade, cfg.Status.Live())

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/news/categories", cfg.News.CreateCategory)
	admin.Delete("/news/categories/:id", cfg.News.DeleteCategory)
	admin.Post("/news", cfg.News.CreateArticle)
	admin.Put("/news/:id", cfg.News.UpdateArticle)
	admin.Delete("/news/:id", cfg.News.DeleteArticle)

	admin.Post("/guidelines", cfg.Guidelines.Create)
	admin.Put("/guidelines/:id", cfg.Guidelines.Update)
	admin.Delete("/guidelines/:id", cfg.Guidelines.Delete)

	admin.Post("/staff", cfg.Staff.Create)
	admin.Put("/staff/:id", cfg.Staff.Update)
	admin.Delete("/staff/:id", cfg.Staff.Delete)

	admin.Post("/media/:id/approve", cfg.Media.Approve)

	admin.Get("/settings", cfg.Settings.List)
	admin.Get("/settings/:key", cfg.Settings.Get)
	admin.Put("/settings/:key", cfg.Settings.Put)
	admin.Delete("/settings/:key", cfg.Settings.Delete)
}
