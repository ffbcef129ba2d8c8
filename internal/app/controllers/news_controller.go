package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
)

// NewsController handles news items
type NewsController struct {
	newsService services.NewsService
}

// NewNewsController creates a new NewsController
func NewNewsController(newsService services.NewsService) *NewsController {
	return &NewsController{newsService: newsService}
}

// ListNews lists news items, newest first
// @Summary List news
// @Description Staff only see published items
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title contains"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.News}}
// @Router /news [get]
func (c *NewsController) ListNews(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.ContentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.newsService.List(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetNews returns a news item
// @Summary Get news item
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} dto.APIResponse{data=models.News}
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{id} [get]
func (c *NewsController) GetNews(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	item, err := c.newsService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, item, "")
}

// CreateNews creates a news item
// @Summary Create news item
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.NewsRequest true "News item"
// @Success 201 {object} dto.APIResponse{data=models.News}
// @Failure 400 {object} dto.ErrorResponse
// @Router /news [post]
func (c *NewsController) CreateNews(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var req dto.NewsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.newsService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, item, "News item created")
}

// UpdateNews updates a news item
// @Summary Update news item
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Param request body dto.NewsRequest true "News item"
// @Success 200 {object} dto.APIResponse{data=models.News}
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{id} [put]
func (c *NewsController) UpdateNews(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.NewsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.newsService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, item, "News item updated")
}

// PublishNews publishes a news item
// @Summary Publish news item
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} dto.APIResponse{data=models.News}
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{id}/publish [patch]
func (c *NewsController) PublishNews(ctx *gin.Context) {
	c.setPublished(ctx, true)
}

// UnpublishNews hides a news item from staff
// @Summary Unpublish news item
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} dto.APIResponse{data=models.News}
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{id}/unpublish [patch]
func (c *NewsController) UnpublishNews(ctx *gin.Context) {
	c.setPublished(ctx, false)
}

func (c *NewsController) setPublished(ctx *gin.Context, published bool) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	item, err := c.newsService.SetPublished(ctx.Request.Context(), id, published)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	msg := "News item unpublished"
	if published {
		msg = "News item published"
	}
	respondOK(ctx, item, msg)
}

// DeleteNews deletes a news item
// @Summary Delete news item
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{id} [delete]
func (c *NewsController) DeleteNews(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.newsService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "News item deleted")
}
