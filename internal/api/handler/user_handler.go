package handler

import (
	"encoding/json"
	"net/http"

	"credpal/internal/api/middleware"
	"credpal/internal/app/service"
	"credpal/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	resolver    *middleware.Resolver
}

func NewUserHandler(userService *service.UserService, resolver *middleware.Resolver) *UserHandler {
	return &UserHandler{userService: userService, resolver: resolver}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.resolver.Authenticator)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.AdminOnly)
		admin.Get("/", h.listUsers)
		admin.Delete("/{userID}", h.deleteUser)
	})

	r.Get("/{userID}", h.getUser)
	r.Put("/{userID}", h.updateUser)
	r.Patch("/{userID}", h.updateUser)
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)

	users, total, err := h.userService.List(r.Context(), page, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "", map[string]interface{}{
		"users":      users,
		"pagination": newPagination(page, limit, total),
	})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "", map[string]interface{}{"user": user})
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.Update(r.Context(), principal, chi.URLParam(r, "userID"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "User updated", map[string]interface{}{"user": user})
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "User deleted", nil)
}
