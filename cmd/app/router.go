package app

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"tagfeed/internal/config"
	handlers "tagfeed/internal/handler"
	"tagfeed/internal/metrics"
	"tagfeed/internal/middleware"
	"tagfeed/internal/storage"
)

// NewRouter registers every route and wraps the result in the global middleware.
func NewRouter(h *handlers.Handlers, m metrics.Provider, cfg *config.Config, log *slog.Logger) http.Handler {
	exposeInternal := !cfg.IsProduction()
	auth := middleware.AuthMiddleware(h.AuthService, log, exposeInternal)

	withMetrics := middleware.Metrics(m)

	router := mux.NewRouter()
	router.NotFoundHandler = withMetrics(http.HandlerFunc(h.NotFound))
	router.MethodNotAllowedHandler = withMetrics(http.HandlerFunc(h.MethodNotAllowed))
	router.Use(mux.MiddlewareFunc(withMetrics))

	// setting up routes
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/api/signup", h.Signup)
	router.HandleFunc("/api/login", h.Login)
	router.Handle("/api/me", auth(http.HandlerFunc(h.GetCurrentUser))).Methods(http.MethodGet)

	router.HandleFunc("/api/posts", h.GetPosts).Methods(http.MethodGet)
	router.Handle("/api/posts", auth(http.HandlerFunc(h.CreatePost))).Methods(http.MethodPost)

	router.HandleFunc("/"+storage.PublicPrefix+"/{filename}", h.ServeUpload).Methods(http.MethodGet, http.MethodHead)

	return middleware.Chain(
		router,
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
		middleware.Logging(log),
		middleware.Recover(log, exposeInternal),
	)
}
