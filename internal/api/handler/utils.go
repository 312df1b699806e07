package handler

import (
	"net/http"
	"strconv"

	"credpal/internal/common"
	"credpal/internal/platform/config"
)

// Pagination is attached to list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func newPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// paginationParams reads page/limit query parameters with the API
// defaults (page 1, limit 10, limit capped at 100).
func paginationParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// respondServiceError maps a service error to the response envelope.
// Internal error detail is only exposed in development.
func respondServiceError(w http.ResponseWriter, err error) {
	status := common.HTTPStatusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError && !config.AppConfig.IsDevelopment() {
		message = "Internal server error"
	}
	common.RespondWithError(w, status, message)
}
