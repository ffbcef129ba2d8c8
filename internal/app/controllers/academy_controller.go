package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// AcademyController handles learning tracks, enrollments, progress and quiz attempts
type AcademyController struct {
	academyService services.AcademyService
	logger         zerolog.Logger
}

// NewAcademyController creates a new AcademyController
func NewAcademyController(academyService services.AcademyService, logger zerolog.Logger) *AcademyController {
	return &AcademyController{
		academyService: academyService,
		logger:         logger,
	}
}

// ListTracks lists learning tracks
// @Summary List tracks
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Track}
// @Router /academy/tracks [get]
func (c *AcademyController) ListTracks(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	tracks, err := c.academyService.ListTracks(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, tracks, "")
}

// GetTrack returns a track with its trainings
// @Summary Get track
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse{data=models.Track}
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/tracks/{id} [get]
func (c *AcademyController) GetTrack(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	track, err := c.academyService.GetTrack(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, track, "")
}

// CreateTrack creates a learning track
// @Summary Create track
// @Tags academy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackRequest true "Track"
// @Success 201 {object} dto.APIResponse{data=models.Track}
// @Failure 400 {object} dto.ErrorResponse
// @Router /academy/tracks [post]
func (c *AcademyController) CreateTrack(ctx *gin.Context) {
	var req dto.TrackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	track, err := c.academyService.CreateTrack(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, track, "Track created")
}

// UpdateTrack updates a learning track
// @Summary Update track
// @Tags academy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Param request body dto.TrackRequest true "Track"
// @Success 200 {object} dto.APIResponse{data=models.Track}
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/tracks/{id} [put]
func (c *AcademyController) UpdateTrack(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TrackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	track, err := c.academyService.UpdateTrack(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, track, "Track updated")
}

// DeleteTrack deletes a learning track
// @Summary Delete track
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/tracks/{id} [delete]
func (c *AcademyController) DeleteTrack(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.academyService.DeleteTrack(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Track deleted")
}

// EnrollTrack enrolls the caller in every training of a track
// @Summary Enroll in track
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/tracks/{id}/enroll [post]
func (c *AcademyController) EnrollTrack(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.academyService.EnrollTrack(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, enrollments, "Enrolled in track")
}

// Enroll enrolls the caller in a training
// @Summary Enroll in training
// @Description Enrolling twice returns the existing enrollment
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/trainings/{id}/enroll [post]
func (c *AcademyController) Enroll(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.academyService.Enroll(ctx.Request.Context(), actor, trainingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, enrollment, "Enrolled")
}

// CompleteLesson marks a lesson as completed and recomputes progress
// @Summary Complete lesson
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/trainings/{id}/lessons/{lessonId}/complete [post]
func (c *AcademyController) CompleteLesson(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := middleware.ParamID(ctx, "lessonId")
	if !ok {
		return
	}

	enrollment, err := c.academyService.CompleteLesson(ctx.Request.Context(), actor, trainingID, lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, enrollment, "Lesson completed")
}

// SubmitQuiz grades a quiz attempt
// @Summary Submit quiz
// @Description answers holds one option index per question in question order
// @Tags academy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param request body dto.QuizSubmitRequest true "Answers"
// @Success 200 {object} dto.APIResponse{data=dto.QuizResultResponse}
// @Failure 400 {object} dto.ErrorResponse "Wrong number of answers"
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/trainings/{id}/quiz [post]
func (c *AcademyController) SubmitQuiz(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuizSubmitRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.academyService.SubmitQuiz(ctx.Request.Context(), actor, trainingID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("userId", actor.UserID).
		Int64("trainingId", trainingID).
		Int("correct", result.Correct).
		Int("total", result.Total).
		Msg("Quiz submitted")
	respondOK(ctx, result, "Quiz graded")
}

// ListAttempts lists the caller's quiz attempts for a training
// @Summary List quiz attempts
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse{data=[]models.QuizAttempt}
// @Router /academy/trainings/{id}/attempts [get]
func (c *AcademyController) ListAttempts(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.academyService.Attempts(ctx.Request.Context(), actor, trainingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, attempts, "")
}

// ListLearners lists enrollments of a training
// @Summary Training learners
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Enrollment}}
// @Failure 404 {object} dto.ErrorResponse
// @Router /academy/trainings/{id}/learners [get]
func (c *AcademyController) ListLearners(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.academyService.TrainingLearners(ctx.Request.Context(), trainingID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetMyProgress summarises the caller's enrollments
// @Summary My progress
// @Tags academy
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.LearnerProgress}
// @Router /academy/progress [get]
func (c *AcademyController) GetMyProgress(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	progress, err := c.academyService.MyProgress(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, progress, "")
}
