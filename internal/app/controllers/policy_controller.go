package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
)

// PolicyController handles policies and their acknowledgements
type PolicyController struct {
	policyService services.PolicyService
}

// NewPolicyController creates a new PolicyController
func NewPolicyController(policyService services.PolicyService) *PolicyController {
	return &PolicyController{policyService: policyService}
}

// ListPolicies lists policies
// @Summary List policies
// @Tags policies
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title contains"
// @Param category query string false "Category"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Policy}}
// @Router /policies [get]
func (c *PolicyController) ListPolicies(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.ContentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.policyService.List(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetPendingPolicies lists active policies the caller has not acknowledged
// @Summary Pending policies
// @Tags policies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Policy}
// @Router /policies/pending [get]
func (c *PolicyController) GetPendingPolicies(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	policies, err := c.policyService.Pending(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, policies, "")
}

// GetPolicy returns a policy
// @Summary Get policy
// @Tags policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} dto.APIResponse{data=models.Policy}
// @Failure 404 {object} dto.ErrorResponse
// @Router /policies/{id} [get]
func (c *PolicyController) GetPolicy(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	policy, err := c.policyService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, policy, "")
}

// CreatePolicy creates a policy
// @Summary Create policy
// @Description A policy needs a body or an uploaded file. With notify=true every active user is notified.
// @Tags policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PolicyRequest true "Policy"
// @Success 201 {object} dto.APIResponse{data=models.Policy}
// @Failure 400 {object} dto.ErrorResponse
// @Router /policies [post]
func (c *PolicyController) CreatePolicy(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var req dto.PolicyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	policy, err := c.policyService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, policy, "Policy created")
}

// UpdatePolicy updates a policy
// @Summary Update policy
// @Tags policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Param request body dto.PolicyRequest true "Policy"
// @Success 200 {object} dto.APIResponse{data=models.Policy}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /policies/{id} [put]
func (c *PolicyController) UpdatePolicy(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.PolicyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	policy, err := c.policyService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, policy, "Policy updated")
}

// DeletePolicy deletes a policy
// @Summary Delete policy
// @Tags policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /policies/{id} [delete]
func (c *PolicyController) DeletePolicy(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.policyService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Policy deleted")
}

// AcknowledgePolicy records that the caller has read a policy
// @Summary Acknowledge policy
// @Description Acknowledging twice keeps the first timestamp
// @Tags policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} dto.APIResponse{data=dto.PolicyAckResponse}
// @Failure 400 {object} dto.ErrorResponse "Policy is inactive"
// @Failure 404 {object} dto.ErrorResponse
// @Router /policies/{id}/acknowledge [post]
func (c *PolicyController) AcknowledgePolicy(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.policyService.Acknowledge(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "Policy acknowledged")
}

// GetAcknowledgement reports whether the caller acknowledged a policy
// @Summary Acknowledgement status
// @Tags policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} dto.APIResponse{data=dto.PolicyAckResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /policies/{id}/acknowledgement [get]
func (c *PolicyController) GetAcknowledgement(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.policyService.AckStatus(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}
