package middleware

import (
	"context"
	"errors"
	"net/http"

	"credpal/internal/app/policy"
	"credpal/internal/common"
	"credpal/internal/common/security"
	"credpal/internal/domain/model"
	"credpal/internal/domain/repository"
	"credpal/internal/platform/session"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// Resolver turns an incoming request into a Principal. Two strategies
// compete: bearer-token auth and cookie-bound session auth. Bearer auth
// takes precedence when both are present, so stateless API clients win
// over browser session state. The first strategy whose scheme appears on
// the request decides the outcome; there is no fallthrough.
type Resolver struct {
	tokens     *security.TokenService
	users      repository.UserRepository
	sessions   session.Store
	cookieName string
}

func NewResolver(tokens *security.TokenService, users repository.UserRepository, sessions session.Store, cookieName string) *Resolver {
	return &Resolver{
		tokens:     tokens,
		users:      users,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

type authStrategy struct {
	applies func(r *http.Request) bool
	resolve func(r *http.Request) (*model.Principal, error)
}

func (rs *Resolver) strategies() []authStrategy {
	return []authStrategy{
		{applies: rs.hasBearerHeader, resolve: rs.resolveBearer},
		{applies: rs.hasSessionCookie, resolve: rs.resolveSession},
	}
}

// Resolve produces the request's Principal or an authentication error.
// Resolution only reads the session and user stores; nothing is mutated.
func (rs *Resolver) Resolve(r *http.Request) (*model.Principal, error) {
	for _, s := range rs.strategies() {
		if s.applies(r) {
			return s.resolve(r)
		}
	}
	return nil, common.ErrAuthenticationRequired
}

func (rs *Resolver) hasBearerHeader(r *http.Request) bool {
	return r.Header.Get("Authorization") != ""
}

func (rs *Resolver) hasSessionCookie(r *http.Request) bool {
	_, err := r.Cookie(rs.cookieName)
	return err == nil
}

func (rs *Resolver) resolveBearer(r *http.Request) (*model.Principal, error) {
	tokenString := jwtauth.TokenFromHeader(r)
	if tokenString == "" {
		// Authorization header present but not a Bearer credential.
		return nil, common.ErrNoToken
	}

	claims, err := rs.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := security.UserIDFromClaims(claims)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	return rs.lookupPrincipal(r.Context(), userID)
}

func (rs *Resolver) resolveSession(r *http.Request) (*model.Principal, error) {
	cookie, err := r.Cookie(rs.cookieName)
	if err != nil {
		return nil, common.ErrNoSession
	}

	userID, err := rs.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	return rs.lookupPrincipal(r.Context(), userID)
}

func (rs *Resolver) lookupPrincipal(ctx context.Context, userID string) (*model.Principal, error) {
	user, err := rs.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Valid credential for a deleted account.
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &model.Principal{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Authenticator gates protected routes: it resolves the Principal and
// stores it in the request context, or rejects the request.
func (rs *Resolver) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := rs.Resolve(r)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), principalCtxKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly requires an authenticated admin principal. Must run after
// Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok || policy.Authorize(principal, policy.AdminOnly, "") != nil {
			common.RespondWithError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext returns the Principal resolved for this request.
func PrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey).(*model.Principal)
	return principal, ok
}

// WithPrincipal returns a context carrying the given principal. Used by
// tests and by handlers invoked outside the Authenticator chain.
func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}
