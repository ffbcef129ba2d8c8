package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
)

// SurveyController handles surveys and their responses
type SurveyController struct {
	surveyService services.SurveyService
}

// NewSurveyController creates a new SurveyController
func NewSurveyController(surveyService services.SurveyService) *SurveyController {
	return &SurveyController{surveyService: surveyService}
}

// ListSurveys lists surveys
// @Summary List surveys
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title contains"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Survey}}
// @Router /surveys [get]
func (c *SurveyController) ListSurveys(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.ContentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.surveyService.List(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetSurvey returns a survey with its questions
// @Summary Get survey
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse{data=models.Survey}
// @Failure 404 {object} dto.ErrorResponse
// @Router /surveys/{id} [get]
func (c *SurveyController) GetSurvey(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	survey, err := c.surveyService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, survey, "")
}

// CreateSurvey creates a survey with its questions
// @Summary Create survey
// @Description Choice questions need at least two distinct options
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SurveyRequest true "Survey"
// @Success 201 {object} dto.APIResponse{data=models.Survey}
// @Failure 400 {object} dto.ErrorResponse
// @Router /surveys [post]
func (c *SurveyController) CreateSurvey(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var req dto.SurveyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	survey, err := c.surveyService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, survey, "Survey created")
}

// UpdateSurvey updates a survey
// @Summary Update survey
// @Description Questions cannot change once responses exist
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Param request body dto.SurveyRequest true "Survey"
// @Success 200 {object} dto.APIResponse{data=models.Survey}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Survey already has responses"
// @Router /surveys/{id} [put]
func (c *SurveyController) UpdateSurvey(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SurveyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	survey, err := c.surveyService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, survey, "Survey updated")
}

// DeleteSurvey deletes a survey and its responses
// @Summary Delete survey
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /surveys/{id} [delete]
func (c *SurveyController) DeleteSurvey(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.surveyService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Survey deleted")
}

// SubmitResponse records the caller's answers
// @Summary Submit survey response
// @Description Answers are keyed by question ID. Each user may respond once.
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Param request body dto.SubmitSurveyRequest true "Answers"
// @Success 201 {object} dto.APIResponse{data=models.SurveyResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid answers or survey closed"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already responded"
// @Router /surveys/{id}/responses [post]
func (c *SurveyController) SubmitResponse(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubmitSurveyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.surveyService.Submit(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp, "Response recorded")
}

// GetResponseStatus reports whether the caller already responded
// @Summary Response status
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse{data=map[string]bool}
// @Failure 404 {object} dto.ErrorResponse
// @Router /surveys/{id}/responded [get]
func (c *SurveyController) GetResponseStatus(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	responded, err := c.surveyService.HasResponded(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, gin.H{"responded": responded}, "")
}

// ListResponses lists raw survey responses
// @Summary List survey responses
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.APIResponse{data=[]models.SurveyResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /surveys/{id}/responses [get]
func (c *SurveyController) ListResponses(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	responses, err := c.surveyService.Responses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, responses, "")
}
