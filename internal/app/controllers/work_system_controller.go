package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
)

// WorkSystemController handles the internal systems catalogue
type WorkSystemController struct {
	workSystemService services.WorkSystemService
}

// NewWorkSystemController creates a new WorkSystemController
func NewWorkSystemController(workSystemService services.WorkSystemService) *WorkSystemController {
	return &WorkSystemController{workSystemService: workSystemService}
}

// ListWorkSystems lists the systems the caller may open
// @Summary List work systems
// @Description Staff only see active systems their role and department are allowed to access
// @Tags work-systems
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.WorkSystem}
// @Router /work-systems [get]
func (c *WorkSystemController) ListWorkSystems(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	systems, err := c.workSystemService.List(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, systems, "")
}

// GetWorkSystem returns a work system
// @Summary Get work system
// @Tags work-systems
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work system ID"
// @Success 200 {object} dto.APIResponse{data=models.WorkSystem}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-systems/{id} [get]
func (c *WorkSystemController) GetWorkSystem(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	system, err := c.workSystemService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, system, "")
}

// CreateWorkSystem creates a work system
// @Summary Create work system
// @Tags work-systems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.WorkSystemRequest true "Work system"
// @Success 201 {object} dto.APIResponse{data=models.WorkSystem}
// @Failure 400 {object} dto.ErrorResponse
// @Router /work-systems [post]
func (c *WorkSystemController) CreateWorkSystem(ctx *gin.Context) {
	var req dto.WorkSystemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	system, err := c.workSystemService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, system, "Work system created")
}

// UpdateWorkSystem updates a work system
// @Summary Update work system
// @Tags work-systems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work system ID"
// @Param request body dto.WorkSystemRequest true "Work system"
// @Success 200 {object} dto.APIResponse{data=models.WorkSystem}
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-systems/{id} [put]
func (c *WorkSystemController) UpdateWorkSystem(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.WorkSystemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	system, err := c.workSystemService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, system, "Work system updated")
}

// DeleteWorkSystem deletes a work system
// @Summary Delete work system
// @Tags work-systems
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work system ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-systems/{id} [delete]
func (c *WorkSystemController) DeleteWorkSystem(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.workSystemService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Work system deleted")
}

// AddAccessRule adds an allow or deny rule to a work system
// @Summary Add access rule
// @Description A rule matches a department, a role or both. Deny rules win over allow rules.
// @Tags work-systems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work system ID"
// @Param request body dto.AccessRuleRequest true "Rule"
// @Success 201 {object} dto.APIResponse{data=models.AccessRule}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-systems/{id}/rules [post]
func (c *WorkSystemController) AddAccessRule(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AccessRuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rule, err := c.workSystemService.AddRule(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, rule, "Access rule added")
}

// DeleteAccessRule removes an access rule
// @Summary Delete access rule
// @Tags work-systems
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work system ID"
// @Param ruleId path int true "Rule ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-systems/{id}/rules/{ruleId} [delete]
func (c *WorkSystemController) DeleteAccessRule(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	ruleID, ok := middleware.ParamID(ctx, "ruleId")
	if !ok {
		return
	}

	if err := c.workSystemService.DeleteRule(ctx.Request.Context(), id, ruleID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Access rule deleted")
}
