package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
)

// LibraryController handles library resources and document templates
type LibraryController struct {
	libraryService services.LibraryService
}

// NewLibraryController creates a new LibraryController
func NewLibraryController(libraryService services.LibraryService) *LibraryController {
	return &LibraryController{libraryService: libraryService}
}

// ListResources lists library resources
// @Summary List library resources
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title contains"
// @Param category query string false "Category"
// @Param type query string false "DOCUMENT, VIDEO, LINK, IMAGE or OTHER"
// @Param tag query string false "Tag"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.LibraryResource}}
// @Router /library [get]
func (c *LibraryController) ListResources(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.ContentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.libraryService.List(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetResource returns a library resource
// @Summary Get library resource
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse{data=models.LibraryResource}
// @Failure 404 {object} dto.ErrorResponse
// @Router /library/{id} [get]
func (c *LibraryController) GetResource(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	resource, err := c.libraryService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resource, "")
}

// CreateResource creates a library resource
// @Summary Create library resource
// @Description Upload the file first through /uploads and pass the returned key
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LibraryRequest true "Resource"
// @Success 201 {object} dto.APIResponse{data=models.LibraryResource}
// @Failure 400 {object} dto.ErrorResponse
// @Router /library [post]
func (c *LibraryController) CreateResource(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var req dto.LibraryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resource, err := c.libraryService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resource, "Resource created")
}

// UpdateResource updates a library resource
// @Summary Update library resource
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body dto.LibraryRequest true "Resource"
// @Success 200 {object} dto.APIResponse{data=models.LibraryResource}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /library/{id} [put]
func (c *LibraryController) UpdateResource(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.LibraryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resource, err := c.libraryService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resource, "Resource updated")
}

// DeleteResource deletes a library resource and its stored file
// @Summary Delete library resource
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /library/{id} [delete]
func (c *LibraryController) DeleteResource(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.libraryService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Resource deleted")
}

// ListTemplates lists document templates
// @Summary List templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name contains"
// @Param category query string false "Category"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Template}}
// @Router /templates [get]
func (c *LibraryController) ListTemplates(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.ContentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.libraryService.ListTemplates(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetTemplate returns a document template
// @Summary Get template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=models.Template}
// @Failure 404 {object} dto.ErrorResponse
// @Router /templates/{id} [get]
func (c *LibraryController) GetTemplate(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	template, err := c.libraryService.GetTemplate(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, template, "")
}

// CreateTemplate creates a document template
// @Summary Create template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TemplateRequest true "Template"
// @Success 201 {object} dto.APIResponse{data=models.Template}
// @Failure 400 {object} dto.ErrorResponse
// @Router /templates [post]
func (c *LibraryController) CreateTemplate(ctx *gin.Context) {
	var req dto.TemplateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	template, err := c.libraryService.CreateTemplate(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, template, "Template created")
}

// UpdateTemplate updates a document template
// @Summary Update template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param request body dto.TemplateRequest true "Template"
// @Success 200 {object} dto.APIResponse{data=models.Template}
// @Failure 404 {object} dto.ErrorResponse
// @Router /templates/{id} [put]
func (c *LibraryController) UpdateTemplate(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TemplateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	template, err := c.libraryService.UpdateTemplate(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, template, "Template updated")
}

// DeleteTemplate deletes a document template
// @Summary Delete template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /templates/{id} [delete]
func (c *LibraryController) DeleteTemplate(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.libraryService.DeleteTemplate(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Template deleted")
}
