package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/dkoval/flagpole/internal/evaluation"
	"github.com/dkoval/flagpole/internal/store"
	"github.com/dkoval/flagpole/internal/telemetry"
)

// Options configures the API server.
type Options struct {
	AdminAPIKey     string
	RateLimitPerIP  int // requests/minute per IP on public routes; 0 disables
	RateLimitPerKey int // requests/minute per bearer key on admin routes; 0 disables
	Logger          zerolog.Logger
}

// Server serves the flag management and evaluation API.
type Server struct {
	store store.Store
	eval  *evaluation.Evaluator
	opts  Options
}

// NewServer creates an API server over the given store and evaluator.
func NewServer(st store.Store, ev *evaluation.Evaluator, opts Options) *Server {
	return &Server{store: st, eval: ev, opts: opts}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(hlog.NewHandler(s.opts.Logger))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(req.Context())).
			Msg("request")
	}))
	r.Use(telemetry.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		// Public reads and evaluation.
		r.Group(func(r chi.Router) {
			if s.opts.RateLimitPerIP > 0 {
				r.Use(httprate.Limit(s.opts.RateLimitPerIP, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByRealIP),
					httprate.WithLimitHandler(RateLimitedError),
				))
			}
			r.Get("/flags", s.handleListFlags)
			r.Get("/flags/{key}", s.handleGetFlag)
			r.Post("/evaluate", s.handleEvaluate)
		})

		// Admin writes.
		r.Group(func(r chi.Router) {
			r.Use(s.authAdmin)
			if s.opts.RateLimitPerKey > 0 {
				r.Use(httprate.Limit(s.opts.RateLimitPerKey, time.Minute,
					httprate.WithKeyFuncs(keyByBearerToken),
					httprate.WithLimitHandler(RateLimitedError),
				))
			}
			r.Post("/flags", s.handleCreateFlag)
			r.Patch("/flags/{key}", s.handleUpdateFlag)
			r.Delete("/flags/{key}", s.handleDeleteFlag)
		})
	})

	return r
}

// authAdmin requires the configured admin bearer key on write routes.
func (s *Server) authAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			UnauthorizedError(w, r, "missing bearer token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.AdminAPIKey)) != 1 {
			ForbiddenError(w, r, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// keyByBearerToken rate-limits admin requests per token rather than per IP.
func keyByBearerToken(r *http.Request) (string, error) {
	return bearerToken(r), nil
}
