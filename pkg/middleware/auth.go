package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carepulse/carepulse/internal/models"
	jwtutil "github.com/carepulse/carepulse/pkg/jwt"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	// UserContextKey holds the token claims of the authenticated request.
	UserContextKey contextKey = "user"
	// CurrentUserContextKey holds the resolved user record.
	CurrentUserContextKey contextKey = "currentUser"
)

// UserLoader resolves a user id from a validated token to a user record.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware validates the bearer token and resolves it to a user
// record, which is stored in the request context alongside the claims.
func AuthMiddleware(jwtSecret string, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Error(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := jwtutil.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				logrus.WithError(err).Warn("Token validation failed")
				httputil.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserID)
			if err != nil {
				logrus.WithField("userID", claims.UserID).WithError(err).Warn("Token resolved to unknown user")
				httputil.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			ctx = context.WithValue(ctx, CurrentUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the token claims of the request, or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(UserContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUser returns the resolved user record of the request, or nil.
func CurrentUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(CurrentUserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireRole restricts a route to users holding one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logrus.WithFields(logrus.Fields{
				"userID": claims.UserID,
				"role":   claims.Role,
			}).Warn("Role check failed")
			httputil.Error(w, http.StatusForbidden, "Forbidden")
		})
	}
}
