package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
)

type errorMapping struct {
	err     error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first sentinel matched by errors.Is wins
var errorMappings = []errorMapping{
	// 404
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrDepartmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Department not found"},
	{apperrors.ErrTrainingNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Training not found"},
	{apperrors.ErrLessonNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Lesson not found"},
	{apperrors.ErrSlideNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Slide not found"},
	{apperrors.ErrQuestionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Question not found"},
	{apperrors.ErrObjectiveNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Objective not found"},
	{apperrors.ErrPolicyNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Policy not found"},
	{apperrors.ErrLibraryNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Library resource not found"},
	{apperrors.ErrTemplateNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Template not found"},
	{apperrors.ErrSubmissionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Market submission not found"},
	{apperrors.ErrSurveyNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Survey not found"},
	{apperrors.ErrNewsNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "News item not found"},
	{apperrors.ErrTrackNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Track not found"},
	{apperrors.ErrEnrollmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Enrollment not found"},
	{apperrors.ErrWorkSystemNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Work system not found"},
	{apperrors.ErrAccessRuleNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Access rule not found"},
	{apperrors.ErrNotificationMissing, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Notification not found"},
	{apperrors.ErrSettingNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Setting not found"},
	{apperrors.ErrFileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found"},

	// 401
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token format"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},

	// 403
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	// 429
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "Too many requests"},

	// 400
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrInvalidPasswordResetToken, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid or expired password reset token"},
	{apperrors.ErrPasswordResetTokenUsed, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Password reset token has already been used"},
	{apperrors.ErrSurveyClosed, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Survey is closed"},
	{apperrors.ErrNothingToImport, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "No importable blocks found"},
	{apperrors.ErrFileRequired, http.StatusBadRequest, dto.ErrorCodeInvalidFile, "File is required"},
	{apperrors.ErrInvalidFileKey, http.StatusBadRequest, dto.ErrorCodeInvalidFile, "Invalid file key"},

	// 413
	{apperrors.ErrFileTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodeFileTooLarge, "File exceeds maximum upload size"},

	// 409
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrDepartmentAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Department with this name or code already exists"},
	{apperrors.ErrDepartmentHasRelations, http.StatusConflict, dto.ErrorCodeConflict, "Department has associated users and cannot be deleted"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
}

// HandleAPIError writes the error response matching err. Errors created with a custom
// message keep that message; unknown errors are logged and reported as 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		if msg, ok := apperrors.MessageOf(err); ok {
			detail.Message = msg
		}
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			if field, ok := ce.Details["field"].(string); ok {
				detail = detail.WithField(field)
			}
			detail = detail.WithDetails(ce.Details)
		}
		if m.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}

		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled API error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}
