package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/service"
)

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search matches a substring over the caller's visible projects, tasks
// and comments
// @Summary      Search
// @Tags         Search
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Query (minimum 3 characters)"
// @Success      200 {object} service.SearchResult
// @Router       /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	result, err := h.search.Search(c.Request.Context(), caller, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
