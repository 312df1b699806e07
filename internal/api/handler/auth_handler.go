package handler

import (
	"encoding/json"
	"net/http"

	"credpal/internal/api/middleware"
	"credpal/internal/app/service"
	"credpal/internal/common"
	"credpal/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	resolver    *middleware.Resolver
}

func NewAuthHandler(authService *service.AuthService, resolver *middleware.Resolver) *AuthHandler {
	return &AuthHandler{authService: authService, resolver: resolver}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/login/session", h.loginSession)
	r.Post("/logout", h.logout)

	r.Group(func(protected chi.Router) {
		protected.Use(h.resolver.Authenticator)
		protected.Get("/me", h.me)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusCreated, "User registered successfully", resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) loginSession(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, sessionID, err := h.authService.LoginWithSession(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	cfg := config.AppConfig
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	common.RespondWithSuccess(w, http.StatusOK, "Session login successful", map[string]interface{}{"user": user})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	cfg := config.AppConfig

	var sessionID string
	if cookie, err := r.Cookie(cfg.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	// No session cookie is still a successful logout.
	if err := h.authService.Logout(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	common.RespondWithSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.Me(r.Context(), principal)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "", map[string]interface{}{"user": user})
}
