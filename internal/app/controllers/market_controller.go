package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// MarketController handles staff market submissions and their review
type MarketController struct {
	marketService services.MarketService
	logger        zerolog.Logger
}

// NewMarketController creates a new MarketController
func NewMarketController(marketService services.MarketService, logger zerolog.Logger) *MarketController {
	return &MarketController{
		marketService: marketService,
		logger:        logger,
	}
}

// ListSubmissions lists market submissions
// @Summary List market submissions
// @Description Staff see approved submissions and their own. Managers see everything.
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title contains"
// @Param category query string false "Category"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param mine query bool false "Only the caller's submissions"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.MarketSubmission}}
// @Router /market [get]
func (c *MarketController) ListSubmissions(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.MarketFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.marketService.List(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetSubmission returns a market submission
// @Summary Get market submission
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=models.MarketSubmission}
// @Failure 404 {object} dto.ErrorResponse
// @Router /market/{id} [get]
func (c *MarketController) GetSubmission(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	item, err := c.marketService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, item, "")
}

// Submit creates a market submission awaiting review
// @Summary Submit to the market
// @Tags market
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MarketSubmissionRequest true "Submission"
// @Success 201 {object} dto.APIResponse{data=models.MarketSubmission}
// @Failure 400 {object} dto.ErrorResponse
// @Router /market [post]
func (c *MarketController) Submit(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var req dto.MarketSubmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.marketService.Submit(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, item, "Submission received and awaiting review")
}

// UpdateSubmission edits a market submission
// @Summary Update market submission
// @Description Submitters may only edit their own pending submissions
// @Tags market
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.MarketSubmissionRequest true "Submission"
// @Success 200 {object} dto.APIResponse{data=models.MarketSubmission}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already reviewed"
// @Router /market/{id} [put]
func (c *MarketController) UpdateSubmission(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.MarketSubmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.marketService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, item, "Submission updated")
}

// ReviewSubmission approves or rejects a submission
// @Summary Review market submission
// @Description The submitter is notified of the decision
// @Tags market
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.ReviewRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.MarketSubmission}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /market/{id}/review [patch]
func (c *MarketController) ReviewSubmission(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.marketService.Review(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("submissionId", id).Str("status", req.Status).Int64("reviewer", actor.UserID).Msg("Market submission reviewed")
	respondOK(ctx, item, "Submission reviewed")
}

// DeleteSubmission deletes a market submission
// @Summary Delete market submission
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /market/{id} [delete]
func (c *MarketController) DeleteSubmission(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.marketService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Submission deleted")
}
