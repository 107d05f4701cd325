package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/token"

	"github.com/google/uuid"
)

type contextKey string

const (
	SubjectIDKey contextKey = "subject_id"
	RoleKey      contextKey = "role"
	TokenIDKey   contextKey = "token_id"
)

// AuthMiddleware guards routes behind the access gate. Each route group
// names the exact role it requires; a token carrying any other role is
// rejected, there is no role hierarchy.
type AuthMiddleware struct {
	gate *usecase.AccessGate
}

func NewAuthMiddleware(gate *usecase.AccessGate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// Require validates the bearer token for exactly the given role and puts the
// verified identity into the request context.
func (m *AuthMiddleware) Require(role entity.Role) func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, tokenString string) (*token.Claims, error) {
		return m.gate.Require(r.Context(), tokenString, role)
	})
}

// RequireAny accepts a bearer token carrying any of the known roles, for
// reads open to every authenticated caller.
func (m *AuthMiddleware) RequireAny() func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, tokenString string) (*token.Claims, error) {
		return m.gate.RequireAny(r.Context(), tokenString)
	})
}

func (m *AuthMiddleware) guard(check func(*http.Request, string) (*token.Claims, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
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

			claims, err := check(r, parts[1])
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthorized) {
					response.Unauthorized(w, "Invalid, expired, or wrong-role token")
					return
				}
				response.InternalServerError(w, "Failed to validate token")
				return
			}

			subjectID, err := uuid.Parse(claims.Subject)
			if err != nil {
				response.Unauthorized(w, "Invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectIDKey, subjectID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubjectIDFromContext extracts the authenticated subject ID from context
func GetSubjectIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	subjectID, ok := ctx.Value(SubjectIDKey).(uuid.UUID)
	return subjectID, ok
}

// GetRoleFromContext extracts the authenticated role from context
func GetRoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(RoleKey).(entity.Role)
	return role, ok
}

// GetTokenIDFromContext extracts the token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
