package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type ctxKey string

const userIDCtxKey ctxKey = "userID"

// UserIDFromContext returns the authenticated user id set by the auth
// middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDCtxKey).(string)
	return userID, ok
}

// ContextWithUserID is used by handler tests to simulate an
// authenticated request.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type AuthMiddlewareHandler struct {
	verifier     tokenVerifier
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(verifier tokenVerifier) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		verifier: verifier,
		allowedPaths: map[string]bool{
			"/":                  true,
			"/version":           true,
			"/api/auth/login":    true,
			"/api/auth/register": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.SendError(w, http.StatusUnauthorized, "authentication required")
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			userID, err := h.verifier.Verify(token)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.SendError(w, http.StatusUnauthorized, "invalid or expired token")
				span.SetStatus(codes.Error, "invalid-auth-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(ctx, userID)))
		})
	}
}
