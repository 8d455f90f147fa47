package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mood-aware-chat/internal/infra/logging"
	"mood-aware-chat/internal/infra/redis"
	"mood-aware-chat/internal/usecase"
)

// RateLimiter gates chat traffic per user. Satisfied by redis.RateLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	userUC     usecase.UserUseCase
	turnUC     usecase.TurnUseCase
	profileUC  usecase.ProfileUseCase
	auth       *AuthManager
	limiter    RateLimiter
	ratePerMin int
	log        *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	turnUC usecase.TurnUseCase,
	profileUC usecase.ProfileUseCase,
	auth *AuthManager,
	limiter RateLimiter,
	ratePerMin int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:     userUC,
		turnUC:     turnUC,
		profileUC:  profileUC,
		auth:       auth,
		limiter:    limiter,
		ratePerMin: ratePerMin,
		log:        logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.traceMiddleware)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)

	// Everything below requires a valid bearer token.
	r.Group(func(pr chi.Router) {
		pr.Use(s.requireUser)
		pr.Get("/auth/validate", s.handleValidate)
		pr.With(s.rateLimit).Post("/chat", s.handleChat)
		pr.Get("/profile/mood", s.handleMoodProfile)
	})

	return r
}

// traceMiddleware stamps a trace ID into the request context so downstream
// log lines of one request correlate.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.With(r.Context(), s.log).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type ctxKey string

const ctxClaims ctxKey = "claims"

// requireUser authenticates the bearer token and puts the claims plus the
// user ID into the request context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaims, claims)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(ctx context.Context) *UserClaims {
	c, _ := ctx.Value(ctxClaims).(*UserClaims)
	return c
}

// rateLimit applies a fixed per-minute window keyed by user ID. Fails open
// when Redis is unreachable; the turn lock still bounds concurrency.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || s.ratePerMin <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		claims := claimsFrom(r.Context())
		ok, err := s.limiter.Allow(r.Context(), redis.UserChatKey(claims.Subject), s.ratePerMin, time.Minute)
		if err != nil {
			logging.With(r.Context(), s.log).Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
