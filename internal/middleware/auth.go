package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "forbidden access"
)

type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Auth holds the request gates. Authenticated checks the bearer token, Admin
// additionally requires the token's user to hold the admin role.
type Auth struct {
	tokens TokenVerifier
	users  UserFinder
	logger *zap.Logger
}

func NewAuth(tokens TokenVerifier, users UserFinder, logger *zap.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, logger: logger.Named("auth")}
}

func (a *Auth) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			response.Error(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err), zap.String("path", r.URL.Path))
			response.Error(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// Admin must run after Authenticated. The role is read from the store on
// every request so a demotion takes effect before the token expires.
func (a *Auth) Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		user, err := a.users.FindByEmail(r.Context(), claims.Email)
		switch {
		case errors.Is(err, services.ErrNotFound):
			response.Error(w, http.StatusForbidden, msgForbidden)
			return
		case err != nil:
			a.logger.Error("admin lookup failed", zap.String("email", claims.Email), zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "internal server error")
			return
		case !user.IsAdmin():
			response.Error(w, http.StatusForbidden, msgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminOnly chains both gates.
func (a *Auth) AdminOnly(next http.Handler) http.Handler {
	return a.Authenticated(a.Admin(next))
}

// SameEmail rejects a request whose path variable param differs from the
// email of the token. Must run after Authenticated.
func (a *Auth) SameEmail(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			if mux.Vars(r)[param] != claims.Email {
				response.Error(w, http.StatusForbidden, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
