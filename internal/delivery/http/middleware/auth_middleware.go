package middleware

import (
	"context"
	"net/http"
	"strings"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
	"mediconnect/pkg/jwt"
	"mediconnect/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const sessionKey contextKey = "session"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	sessions   gateway.SessionStore
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessions gateway.SessionStore, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Check the token was not revoked by logout
		exists, err := m.sessions.Exists(r.Context(), gateway.TokenKindAccess, claims.UserID, claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to validate token: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !exists {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithSession(r.Context(), entity.Session{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Role:    claims.Role,
			TokenID: claims.TokenID,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSession stores the authenticated session in ctx
func WithSession(ctx context.Context, session entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext extracts the session set by Authenticate
func SessionFromContext(ctx context.Context) (entity.Session, bool) {
	session, ok := ctx.Value(sessionKey).(entity.Session)
	return session, ok
}
