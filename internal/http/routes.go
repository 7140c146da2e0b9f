package httpx

import (
	"log/slog"
	"net/http"

	"github.com/quillworks/quill-api/internal/domain/auth"
	"github.com/quillworks/quill-api/internal/ports"
	"github.com/quillworks/quill-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     *service.AuthService
	Accounts *service.AccountService
	Posts    *service.PostService
	Comments *service.CommentService
	Stats    *service.StatsService

	Guard    *auth.Guard
	Identity ports.IdentityProvider // nil disables the federated routes
	Cookies  CookieConfig
	Logger   *slog.Logger // Logger for HTTP access logs (optional)
}

// NewRouter creates and configures the HTTP router with logging and panic
// recovery applied around every route.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:      services.Auth,
		Identity: services.Identity,
		Cookies:  services.Cookies,
		Logger:   logger,
	}
	accountHandlers := &AccountHandlers{Svc: services.Accounts}
	postHandlers := &PostHandlers{Svc: services.Posts}
	commentHandlers := &CommentHandlers{Svc: services.Comments}
	statsHandlers := &StatsHandlers{Svc: services.Stats}

	registerAuthRoutes(mux, authHandlers)
	registerAccountRoutes(mux, accountHandlers, services.Guard)
	registerPostRoutes(mux, postHandlers, services.Guard)
	registerCommentRoutes(mux, commentHandlers, services.Guard)
	registerStatsRoutes(mux, statsHandlers, services.Guard)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return Recover(logger)(RequestID()(Logging(logger)(mux)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/signin", h.SignIn)
	mux.HandleFunc("POST /api/auth/signout", h.SignOut)
	mux.HandleFunc("GET /api/auth/google", h.GoogleRedirect)
	mux.HandleFunc("GET /api/auth/google/callback", h.GoogleCallback)
}

func registerAccountRoutes(mux *http.ServeMux, h *AccountHandlers, guard *auth.Guard) {
	authed := RequireAuth(guard)
	adminOnly := RequireAdmin(guard)

	mux.Handle("GET /api/accounts", adminOnly(http.HandlerFunc(h.List)))
	// The single-account view is public; it only ever serves the stripped
	// AccountView.
	mux.HandleFunc("GET /api/accounts/{id}", h.GetByID)
	mux.Handle("PUT /api/accounts/{id}", authed(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/accounts/{id}", authed(http.HandlerFunc(h.Delete)))
}

func registerPostRoutes(mux *http.ServeMux, h *PostHandlers, guard *auth.Guard) {
	adminOnly := RequireAdmin(guard)

	// Reads are public
	mux.HandleFunc("GET /api/posts", h.List)
	mux.HandleFunc("GET /api/posts/{id}", h.GetByID)
	mux.HandleFunc("GET /api/posts/slug/{slug}", h.GetBySlug)

	mux.Handle("POST /api/posts", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/posts/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/posts/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}

func registerCommentRoutes(mux *http.ServeMux, h *CommentHandlers, guard *auth.Guard) {
	authed := RequireAuth(guard)
	adminOnly := RequireAdmin(guard)

	mux.HandleFunc("GET /api/posts/{id}/comments", h.ListByPost)
	mux.Handle("GET /api/comments", adminOnly(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/comments", authed(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/comments/{id}", authed(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/comments/{id}", authed(http.HandlerFunc(h.Delete)))
	mux.Handle("PUT /api/comments/{id}/like", authed(http.HandlerFunc(h.ToggleLike)))
}

func registerStatsRoutes(mux *http.ServeMux, h *StatsHandlers, guard *auth.Guard) {
	adminOnly := RequireAdmin(guard)
	mux.Handle("GET /api/stats", adminOnly(http.HandlerFunc(h.Dashboard)))
}
