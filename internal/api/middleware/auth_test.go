package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credpal/internal/api/middleware"
	"credpal/internal/common"
	"credpal/internal/common/security"
	"credpal/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "session_id"

type stubUserRepo struct {
	users map[string]*model.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, id string) error        { return nil }
func (r *stubUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	return nil, 0, nil
}

type stubSessionStore struct {
	sessions map[string]string
}

func (s *stubSessionStore) Create(ctx context.Context, userID string) (string, error) {
	id := "sess-" + userID
	s.sessions[id] = userID
	return id, nil
}

func (s *stubSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	if userID, ok := s.sessions[sessionID]; ok {
		return userID, nil
	}
	return "", common.ErrNoSession
}

func (s *stubSessionStore) Destroy(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func newTestResolver(t *testing.T) (*middleware.Resolver, *security.TokenService, *stubUserRepo, *stubSessionStore) {
	t.Helper()
	tokens := security.NewTokenService([]byte("test-signing-key"), time.Hour)
	users := &stubUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", Name: "A", Email: "a@x.com", Role: model.RoleUser},
		"u2": {ID: "u2", Name: "B", Email: "b@x.com", Role: model.RoleAdmin},
	}}
	sessions := &stubSessionStore{sessions: map[string]string{}}
	return middleware.NewResolver(tokens, users, sessions, cookieName), tokens, users, sessions
}

func TestResolver_BearerToken(t *testing.T) {
	resolver, tokens, _, _ := newTestResolver(t)

	t.Run("valid token resolves principal", func(t *testing.T) {
		tokenString, err := tokens.Issue("u1", "a@x.com", model.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+tokenString)

		principal, err := resolver.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, "u1", principal.ID)
		assert.Equal(t, model.RoleUser, principal.Role)
	})

	t.Run("non-bearer authorization header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwdw==")

		_, err := resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrNoToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer garbage")

		_, err := resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := security.NewTokenService([]byte("test-signing-key"), -time.Minute)
		tokenString, err := expired.Issue("u1", "a@x.com", model.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+tokenString)

		_, err = resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("valid token for deleted account", func(t *testing.T) {
		tokenString, err := tokens.Issue("gone", "gone@x.com", model.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+tokenString)

		_, err = resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrUserNotFound)
	})
}

func TestResolver_Session(t *testing.T) {
	resolver, _, _, sessions := newTestResolver(t)

	t.Run("valid session cookie resolves principal", func(t *testing.T) {
		sessionID, err := sessions.Create(context.Background(), "u1")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})

		principal, err := resolver.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, "u1", principal.ID)
	})

	t.Run("unknown session cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookieName, Value: "nope"})

		_, err := resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrNoSession)
	})

	t.Run("destroyed session is unusable", func(t *testing.T) {
		sessionID, err := sessions.Create(context.Background(), "u1")
		require.NoError(t, err)
		require.NoError(t, sessions.Destroy(context.Background(), sessionID))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})

		_, err = resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrNoSession)
	})

	t.Run("session bound to deleted account", func(t *testing.T) {
		sessionID, err := sessions.Create(context.Background(), "gone")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})

		_, err = resolver.Resolve(r)
		assert.ErrorIs(t, err, common.ErrUserNotFound)
	})
}

func TestResolver_Precedence(t *testing.T) {
	resolver, tokens, _, sessions := newTestResolver(t)

	// Bearer identity u1, session identity u2: the token must win.
	tokenString, err := tokens.Issue("u1", "a@x.com", model.RoleUser)
	require.NoError(t, err)
	sessionID, err := sessions.Create(context.Background(), "u2")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tokenString)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})

	principal, err := resolver.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.ID)
}

func TestResolver_NoCredentials(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := resolver.Resolve(r)
	assert.ErrorIs(t, err, common.ErrAuthenticationRequired)
}

func TestAuthenticatorMiddleware(t *testing.T) {
	resolver, tokens, _, _ := newTestResolver(t)

	var captured *model.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = middleware.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes principal through context", func(t *testing.T) {
		tokenString, err := tokens.Issue("u1", "a@x.com", model.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		resolver.Authenticator(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "u1", captured.ID)
	})

	t.Run("rejects unauthenticated request with 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		resolver.Authenticator(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := middleware.WithPrincipal(r.Context(), &model.Principal{ID: "u2", Role: model.RoleAdmin})
		w := httptest.NewRecorder()

		middleware.AdminOnly(next).ServeHTTP(w, r.WithContext(ctx))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := middleware.WithPrincipal(r.Context(), &model.Principal{ID: "u1", Role: model.RoleUser})
		w := httptest.NewRecorder()

		middleware.AdminOnly(next).ServeHTTP(w, r.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing principal is forbidden", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		middleware.AdminOnly(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
