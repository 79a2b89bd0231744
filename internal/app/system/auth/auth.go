// Package auth gates protected routes behind a bearer token and makes the
// authenticated user available to downstream handlers.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/app/system/tokens"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// failureMessage is the single response for every authentication failure,
// so callers cannot tell which check rejected them.
const failureMessage = "Authentication failed"

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(token string) (*tokens.Claims, error)
}

// UserFetcher loads the user a token refers to.
type UserFetcher interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Middleware verifies bearer tokens and loads the referenced user.
type Middleware struct {
	Tokens TokenVerifier
	Users  UserFetcher
	Log    *zap.Logger
}

// NewMiddleware constructs a Middleware.
func NewMiddleware(tv TokenVerifier, users UserFetcher, logger *zap.Logger) *Middleware {
	return &Middleware{Tokens: tv, Users: users, Log: logger}
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	tokenKey       ctxKey = "token"
)

// RequireBearer rejects the request with 401 unless it carries a valid
// token for a user that still exists. It performs one user read.
func (m *Middleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, failureMessage)
			return
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, failureMessage)
			return
		}

		oid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, failureMessage)
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), m.Log, "auth.load_user")
		defer cancel()

		u, err := m.Users.GetByID(ctx, oid)
		if err != nil || u == nil {
			if err != nil && m.Log != nil {
				m.Log.Debug("bearer user lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
			}
			httpjson.Error(w, http.StatusUnauthorized, failureMessage)
			return
		}

		next.ServeHTTP(w, WithUser(r, u, raw))
	})
}

// CurrentUser returns the authenticated user and a "found?" flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok && u != nil
}

// Token returns the raw bearer token of the authenticated request.
func Token(r *http.Request) string {
	s, _ := r.Context().Value(tokenKey).(string)
	return s
}

// WithUser attaches u and its token to the request context. Handler tests
// use it to skip the middleware.
func WithUser(r *http.Request, u *models.User, token string) *http.Request {
	ctx := context.WithValue(r.Context(), currentUserKey, u)
	ctx = context.WithValue(ctx, tokenKey, token)
	return r.WithContext(ctx)
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
