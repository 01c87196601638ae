package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tagfeed/internal/apperror"
	handlers "tagfeed/internal/handler"
	"tagfeed/internal/metrics"
	"tagfeed/internal/service"
)

type Middleware func(http.Handler) http.Handler

// AuthMiddleware verifies the bearer token and adds the caller id to the context
func AuthMiddleware(authService service.AuthService, log *slog.Logger, exposeInternal bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extracting the token from the header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, log, apperror.Authentication("Authentication required"), exposeInternal)
				return
			}

			// Checking the "Bearer <token>" format
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				handlers.WriteError(w, log, apperror.Authentication("Invalid authorization header"), exposeInternal)
				return
			}

			claims, err := authService.ParseToken(parts[1])
			if err != nil {
				handlers.WriteError(w, log, err, exposeInternal)
				return
			}

			next.ServeHTTP(w, r.WithContext(service.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// Recover turns a panic into an internal error response.
func Recover(log *slog.Logger, exposeInternal bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())))
					handlers.WriteError(w, log, apperror.Internal(fmt.Errorf("panic: %v", rec)), exposeInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func Logging(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.Status()),
				slog.Int("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)))
		})
	}
}

// Metrics records request counts and latency per route template. Installed
// with router.Use it sees the matched route; wrapped around the router's
// fallback handlers it records under "unmatched". A panic is counted as a 500
// and re-raised for Recover.
func Metrics(m metrics.Provider) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			defer func() {
				if p := recover(); p != nil {
					m.RecordHTTPRequest(r.Method, route, http.StatusInternalServerError, time.Since(start))
					panic(p)
				}
				m.RecordHTTPRequest(r.Method, route, rec.Status(), time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// CORSMiddleware answers preflight requests for the configured origins. An
// empty list or "*" allows any origin.
func CORSMiddleware(allowedOrigins []string) Middleware {
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(allowedOrigins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillahandlers.OptionStatusCode(http.StatusNoContent),
	)
}

// Chain wraps h so the last middleware runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
