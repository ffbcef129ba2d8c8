package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
)

// AnalyticsController exposes aggregate statistics for the admin dashboard
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetOverview returns portal-wide counters and rates
// @Summary Analytics overview
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OverviewStats}
// @Failure 403 {object} dto.ErrorResponse
// @Router /analytics/overview [get]
func (c *AnalyticsController) GetOverview(ctx *gin.Context) {
	stats, err := c.analyticsService.Overview(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, stats, "")
}

// GetTrainingStats returns enrollment and quiz statistics of a training
// @Summary Training analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse{data=dto.TrainingStats}
// @Failure 404 {object} dto.ErrorResponse
// @Router /analytics/trainings/{id} [get]
func (c *AnalyticsController) GetTrainingStats(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.analyticsService.Training(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, stats, "")
}

// GetPolicyStats returns the acknowledgement rate of a policy
// @Summary Policy analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} dto.APIResponse{data=dto.PolicyStats}
// @Failure 404 {object} dto.ErrorResponse
// @Router /analytics/policies/{id} [get]
func (c *AnalyticsController) GetPolicyStats(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.analyticsService.Policy(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, stats, "")
}

// GetSurveyResults returns per-question answer distributions of a survey
// @Summary Survey results
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse{data=dto.SurveyResults}
// @Failure 404 {object} dto.ErrorResponse
// @Router /analytics/surveys/{id} [get]
func (c *AnalyticsController) GetSurveyResults(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	results, err := c.analyticsService.Survey(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, results, "")
}
