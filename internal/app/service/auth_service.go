package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"credpal/internal/common"
	"credpal/internal/common/security"
	"credpal/internal/domain/model"
	"credpal/internal/domain/repository"
	"credpal/internal/platform/session"

	"github.com/google/uuid"
)

// dummyPasswordHash is verified against when the email is unknown, so a
// login miss costs roughly the same as a wrong password. It is a
// syntactically valid bcrypt hash that matches no password.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIvNq.Uf3hE9tQALNP1Qn9sNp5x5x5x5"

type AuthService struct {
	userRepo repository.UserRepository
	sessions session.Store
	tokens   *security.TokenService
}

func NewAuthService(userRepo repository.UserRepository, sessions session.Store, tokens *security.TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions, tokens: tokens}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", common.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", common.ErrValidation)
	}
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", common.ErrValidation)
	}

	role := model.RoleUser
	if req.Role == model.RoleAdmin {
		role = model.RoleAdmin
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
	}

	// The store's unique constraint on the email is the atomicity
	// guarantee here; a racing duplicate surfaces as ErrDuplicateEmail.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and issues a fresh bearer token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.verifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// LoginWithSession verifies credentials and records server-side session
// state instead of issuing a token. Returns the user and session ID.
func (s *AuthService) LoginWithSession(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	user, err := s.verifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", err
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	user.HashedPassword = ""
	return user, sessionID, nil
}

// Logout destroys the session. A missing or already-destroyed session is
// a no-op success; bearer tokens are unaffected and simply self-expire.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

// Me returns the user record behind the resolved principal.
func (s *AuthService) Me(ctx context.Context, principal *model.Principal) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// verifyCredentials is the single credential check shared by both login
// paths. Unknown email and wrong password return the same error so the
// response cannot distinguish them.
func (s *AuthService) verifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			security.CheckPasswordHash(password, dummyPasswordHash) // equalize timing
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
