package handlers

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cerdas/internal/metrics"
	"cerdas/internal/models"
	"cerdas/internal/security"
	"cerdas/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
	log         *zap.SugaredLogger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter, log *zap.SugaredLogger) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
		log:         log,
	}
}

// RequireAuth validates the bearer token and puts the caller's identity
// on the request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		identity, err := m.authService.ValidateToken(token)
		if err != nil {
			respondError(w, m.log, err)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole restricts a handler to callers holding one of the given roles.
// Must wrap inside RequireAuth.
func (m *Middleware) RequireRole(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not signed in"})
			return
		}

		for _, role := range roles {
			if identity.Profile.Role == role {
				next(w, r)
				return
			}
		}

		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not allowed"})
	})
}

// RateLimit rejects clients that exceed the per-IP request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(clientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		next(w, r)
	}
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Logging logs every request and feeds the request counter
func Logging(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// IdentityFromContext retrieves the caller's identity from the request context
func IdentityFromContext(ctx context.Context) *service.Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*service.Identity)
	if !ok {
		return nil
	}
	return identity
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// clientIP resolves the caller's address, honoring the first proxy hop
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
