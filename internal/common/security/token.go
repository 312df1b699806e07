package security

import (
	"errors"
	"time"

	"credpal/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed bearer tokens. The signing key
// and TTL come from configuration loaded once at startup; the service is
// constructed in main and injected where needed.
type TokenService struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
}

func NewTokenService(key []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		auth: jwtauth.New("HS256", key, nil),
		ttl:  ttl,
	}
}

// Issue creates a self-contained HS256 token carrying the user's
// identity claims and an absolute expiry.
func (s *TokenService) Issue(userID, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     now.Add(s.ttl).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	return tokenString, err
}

// Verify checks signature and expiry and returns the token's private
// claims. Expired tokens fail with common.ErrTokenExpired; anything else
// (bad signature, malformed structure) fails with common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (map[string]interface{}, error) {
	token, err := jwtauth.VerifyToken(s.auth, tokenString)
	if err != nil {
		if errors.Is(jwtauth.ErrorReason(err), jwtauth.ErrExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	return token.PrivateClaims(), nil
}

// Helper functions to extract claims, used by the authentication resolver.
func UserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func EmailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}

func RoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
