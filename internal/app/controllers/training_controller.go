package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// TrainingController handles trainings and their lessons, slides, questions and objectives
type TrainingController struct {
	trainingService services.TrainingService
	logger          zerolog.Logger
}

// NewTrainingController creates a new TrainingController
func NewTrainingController(trainingService services.TrainingService, logger zerolog.Logger) *TrainingController {
	return &TrainingController{
		trainingService: trainingService,
		logger:          logger,
	}
}

// ListTrainings lists trainings
// @Summary List trainings
// @Description Staff only see active trainings
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title contains"
// @Param category query string false "Category"
// @Param mandatory query bool false "Only mandatory (true) or optional (false) trainings"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Training}}
// @Failure 400 {object} dto.ErrorResponse
// @Router /trainings [get]
func (c *TrainingController) ListTrainings(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var filter dto.TrainingFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.trainingService.List(ctx.Request.Context(), actor, &filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetTraining returns a training with its lessons and objectives
// @Summary Get training
// @Description Lessons with slides and objectives are included. Questions with answers are only included for managers.
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse{data=models.Training}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id} [get]
func (c *TrainingController) GetTraining(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	training, err := c.trainingService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, training, "")
}

// CreateTraining creates a training
// @Summary Create training
// @Description Activating a mandatory training notifies every active user
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrainingRequest true "Training"
// @Success 201 {object} dto.APIResponse{data=models.Training}
// @Failure 400 {object} dto.ErrorResponse
// @Router /trainings [post]
func (c *TrainingController) CreateTraining(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	var req dto.TrainingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	training, err := c.trainingService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, training, "Training created")
}

// UpdateTraining updates a training
// @Summary Update training
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param request body dto.TrainingRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Training}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id} [put]
func (c *TrainingController) UpdateTraining(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TrainingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	training, err := c.trainingService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, training, "Training updated")
}

// DeleteTraining deletes a training with all its content
// @Summary Delete training
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id} [delete]
func (c *TrainingController) DeleteTraining(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.trainingService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Training deleted")
}

// CreateLesson adds a lesson to a training
// @Summary Create lesson
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param request body dto.LessonRequest true "Lesson"
// @Success 201 {object} dto.APIResponse{data=models.Lesson}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons [post]
func (c *TrainingController) CreateLesson(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.LessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.trainingService.CreateLesson(ctx.Request.Context(), trainingID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, lesson, "Lesson created")
}

// UpdateLesson updates a lesson
// @Summary Update lesson
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Param request body dto.LessonRequest true "Lesson"
// @Success 200 {object} dto.APIResponse{data=models.Lesson}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons/{lessonId} [put]
func (c *TrainingController) UpdateLesson(ctx *gin.Context) {
	lessonID, ok := middleware.ParamID(ctx, "lessonId")
	if !ok {
		return
	}
	var req dto.LessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.trainingService.UpdateLesson(ctx.Request.Context(), lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, lesson, "Lesson updated")
}

// DeleteLesson deletes a lesson and its slides
// @Summary Delete lesson
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons/{lessonId} [delete]
func (c *TrainingController) DeleteLesson(ctx *gin.Context) {
	lessonID, ok := middleware.ParamID(ctx, "lessonId")
	if !ok {
		return
	}
	if err := c.trainingService.DeleteLesson(ctx.Request.Context(), lessonID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Lesson deleted")
}

// ReorderLessons sets the lesson order of a training
// @Summary Reorder lessons
// @Description The ids must list every lesson of the training exactly once
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param request body dto.IDRequest true "Lesson IDs in the new order"
// @Success 200 {object} dto.APIResponse{data=[]models.Lesson}
// @Failure 400 {object} dto.ErrorResponse
// @Router /trainings/{id}/lesson-order [put]
func (c *TrainingController) ReorderLessons(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.IDRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lessons, err := c.trainingService.ReorderLessons(ctx.Request.Context(), trainingID, req.IDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, lessons, "Lessons reordered")
}

// CreateSlide adds a slide to a lesson
// @Summary Create slide
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Param request body dto.SlideRequest true "Slide"
// @Success 201 {object} dto.APIResponse{data=models.Slide}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons/{lessonId}/slides [post]
func (c *TrainingController) CreateSlide(ctx *gin.Context) {
	lessonID, ok := middleware.ParamID(ctx, "lessonId")
	if !ok {
		return
	}
	var req dto.SlideRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slide, err := c.trainingService.CreateSlide(ctx.Request.Context(), lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, slide, "Slide created")
}

// UpdateSlide updates a slide
// @Summary Update slide
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Param slideId path int true "Slide ID"
// @Param request body dto.SlideRequest true "Slide"
// @Success 200 {object} dto.APIResponse{data=models.Slide}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons/{lessonId}/slides/{slideId} [put]
func (c *TrainingController) UpdateSlide(ctx *gin.Context) {
	slideID, ok := middleware.ParamID(ctx, "slideId")
	if !ok {
		return
	}
	var req dto.SlideRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slide, err := c.trainingService.UpdateSlide(ctx.Request.Context(), slideID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, slide, "Slide updated")
}

// DeleteSlide deletes a slide
// @Summary Delete slide
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Param slideId path int true "Slide ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons/{lessonId}/slides/{slideId} [delete]
func (c *TrainingController) DeleteSlide(ctx *gin.Context) {
	slideID, ok := middleware.ParamID(ctx, "slideId")
	if !ok {
		return
	}
	if err := c.trainingService.DeleteSlide(ctx.Request.Context(), slideID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Slide deleted")
}

// ReorderSlides sets the slide order of a lesson
// @Summary Reorder slides
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param lessonId path int true "Lesson ID"
// @Param request body dto.IDRequest true "Slide IDs in the new order"
// @Success 200 {object} dto.APIResponse{data=models.Lesson}
// @Failure 400 {object} dto.ErrorResponse
// @Router /trainings/{id}/lessons/{lessonId}/slide-order [put]
func (c *TrainingController) ReorderSlides(ctx *gin.Context) {
	lessonID, ok := middleware.ParamID(ctx, "lessonId")
	if !ok {
		return
	}
	var req dto.IDRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.trainingService.ReorderSlides(ctx.Request.Context(), lessonID, req.IDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, lesson, "Slides reordered")
}

// ListQuestions lists quiz questions with their answers
// @Summary List quiz questions
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Question}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/questions [get]
func (c *TrainingController) ListQuestions(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.trainingService.ListQuestions(ctx.Request.Context(), trainingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, questions, "")
}

// GetQuiz returns the quiz of a training without answers
// @Summary Get quiz
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuizQuestionResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/quiz [get]
func (c *TrainingController) GetQuiz(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.trainingService.Quiz(ctx.Request.Context(), actor, trainingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, quiz, "")
}

// CreateQuestion adds a quiz question
// @Summary Create question
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=models.Question}
// @Failure 400 {object} dto.ErrorResponse "correctAnswer out of range"
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/questions [post]
func (c *TrainingController) CreateQuestion(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	question, err := c.trainingService.CreateQuestion(ctx.Request.Context(), trainingID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, question, "Question created")
}

// UpdateQuestion updates a quiz question
// @Summary Update question
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param questionId path int true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.APIResponse{data=models.Question}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/questions/{questionId} [put]
func (c *TrainingController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := middleware.ParamID(ctx, "questionId")
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	question, err := c.trainingService.UpdateQuestion(ctx.Request.Context(), questionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, question, "Question updated")
}

// DeleteQuestion deletes a quiz question
// @Summary Delete question
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param questionId path int true "Question ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/questions/{questionId} [delete]
func (c *TrainingController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := middleware.ParamID(ctx, "questionId")
	if !ok {
		return
	}
	if err := c.trainingService.DeleteQuestion(ctx.Request.Context(), questionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Question deleted")
}

// CreateObjective adds a learning objective
// @Summary Create objective
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param request body dto.ObjectiveRequest true "Objective"
// @Success 201 {object} dto.APIResponse{data=models.Objective}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/objectives [post]
func (c *TrainingController) CreateObjective(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ObjectiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	objective, err := c.trainingService.CreateObjective(ctx.Request.Context(), trainingID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, objective, "Objective created")
}

// UpdateObjective updates a learning objective
// @Summary Update objective
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param objectiveId path int true "Objective ID"
// @Param request body dto.ObjectiveRequest true "Objective"
// @Success 200 {object} dto.APIResponse{data=models.Objective}
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/objectives/{objectiveId} [put]
func (c *TrainingController) UpdateObjective(ctx *gin.Context) {
	objectiveID, ok := middleware.ParamID(ctx, "objectiveId")
	if !ok {
		return
	}
	var req dto.ObjectiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	objective, err := c.trainingService.UpdateObjective(ctx.Request.Context(), objectiveID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, objective, "Objective updated")
}

// DeleteObjective deletes a learning objective
// @Summary Delete objective
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param objectiveId path int true "Objective ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/objectives/{objectiveId} [delete]
func (c *TrainingController) DeleteObjective(ctx *gin.Context) {
	objectiveID, ok := middleware.ParamID(ctx, "objectiveId")
	if !ok {
		return
	}
	if err := c.trainingService.DeleteObjective(ctx.Request.Context(), objectiveID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Objective deleted")
}

// Import bulk-imports pasted text into a training
// @Summary Bulk import lessons, questions or objectives
// @Description kind is one of lessons, questions or objectives. Blocks that cannot be parsed are skipped and counted.
// @Description With replace=true the existing records of that kind are removed in the same transaction.
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Training ID"
// @Param kind path string true "Import kind" Enums(lessons, questions, objectives)
// @Param request body dto.ImportRequest true "Text to import"
// @Success 201 {object} dto.APIResponse{data=dto.ImportResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown kind or nothing importable"
// @Failure 404 {object} dto.ErrorResponse
// @Router /trainings/{id}/import/{kind} [post]
func (c *TrainingController) Import(ctx *gin.Context) {
	trainingID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ImportRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	kind := ctx.Param("kind")

	resp, err := c.trainingService.Import(ctx.Request.Context(), trainingID, kind, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("trainingId", trainingID).Str("kind", kind).Msg("Import failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("trainingId", trainingID).
		Str("kind", kind).
		Int("imported", resp.Imported).
		Int("skipped", resp.Skipped).
		Msg("Bulk import completed")
	respondCreated(ctx, resp, "Import completed")
}
