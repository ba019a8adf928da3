package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	jwtutil "github.com/carepulse/carepulse/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type stubUserLoader struct {
	user *models.User
	err  error
}

func (s *stubUserLoader) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.user, s.err
}

func doRequest(t *testing.T, loader UserLoader, authHeader string) (*httptest.ResponseRecorder, *models.User) {
	t.Helper()

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	AuthMiddleware(testSecret, loader)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _ := doRequest(t, &stubUserLoader{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	rec, _ := doRequest(t, &stubUserLoader{}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, _ := doRequest(t, &stubUserLoader{}, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	token, err := jwtutil.GenerateToken("deadbeef", "a@x.com", "family", testSecret, time.Hour)
	require.NoError(t, err)

	rec, _ := doRequest(t, &stubUserLoader{err: errors.New("not found")}, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireRole("medical", "caregiver")(next)

	// no claims in context
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// wrong role
	ctx := context.WithValue(context.Background(), UserContextKey, &jwtutil.Claims{Role: "family"})
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// allowed role
	ctx = context.WithValue(context.Background(), UserContextKey, &jwtutil.Claims{Role: "medical"})
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_ValidTokenResolvesUser(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@x.com", Role: "family"}
	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	rec, seen := doRequest(t, &stubUserLoader{user: user}, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}
