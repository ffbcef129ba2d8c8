package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
)

// SearchController handles the global search box
type SearchController struct {
	searchService services.SearchService
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService services.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

// Search searches trainings, policies, library resources, news and surveys by title
// @Summary Global search
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text (at least 2 characters)"
// @Param limit query int false "Maximum results" default(30)
// @Success 200 {object} dto.APIResponse{data=dto.SearchResponse}
// @Failure 400 {object} dto.ErrorResponse "Query too short"
// @Router /search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultSearchLimit)))
	if err != nil {
		limit = services.DefaultSearchLimit
	}

	resp, err := c.searchService.Search(ctx.Request.Context(), actor, ctx.Query("q"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}
