// Package apperrors holds the sentinel errors returned by repositories and services.
// The API layer maps each sentinel to a status code and error code.
package apperrors

import "errors"

// Generic
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrTooManyRequests  = errors.New("too many requests")
)

// Authentication and accounts
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrPasswordResetTokenUsed    = errors.New("password reset token has already been used")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Departments
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department with this name or code already exists")
	ErrDepartmentHasRelations  = errors.New("department has associated users and cannot be deleted")
)

// Portal content
var (
	ErrTrainingNotFound    = errors.New("training not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrSlideNotFound       = errors.New("slide not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrObjectiveNotFound   = errors.New("objective not found")
	ErrPolicyNotFound      = errors.New("policy not found")
	ErrLibraryNotFound     = errors.New("library resource not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrSubmissionNotFound  = errors.New("market submission not found")
	ErrSurveyNotFound      = errors.New("survey not found")
	ErrSurveyClosed        = errors.New("survey is closed")
	ErrNewsNotFound        = errors.New("news item not found")
	ErrTrackNotFound       = errors.New("track not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrWorkSystemNotFound  = errors.New("work system not found")
	ErrAccessRuleNotFound  = errors.New("access rule not found")
	ErrNotificationMissing = errors.New("notification not found")
	ErrSettingNotFound     = errors.New("setting not found")
	ErrNothingToImport     = errors.New("no importable blocks found")
)

// Files
var (
	ErrFileNotFound   = errors.New("file not found")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrFileRequired   = errors.New("file is required")
	ErrInvalidFileKey = errors.New("invalid file key")
)

// CustomError attaches a client-facing message and optional details to a sentinel.
// errors.Is sees through it to the sentinel.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *CustomError) Unwrap() error { return e.Err }

// WithDetails sets the details reported next to the message
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError wraps err with message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

func wrap(sentinel error, message string) error {
	return NewCustomError(sentinel, message)
}

func NewResourceNotFoundError(message string) error { return wrap(ErrResourceNotFound, message) }
func NewConflictError(message string) error         { return wrap(ErrConflict, message) }
func NewForbiddenError(message string) error        { return wrap(ErrPermissionDenied, message) }
func NewBadRequestError(message string) error       { return wrap(ErrBadRequest, message) }

// NewValidationError reports a problem with one request field
func NewValidationError(field, message string) error {
	return NewCustomError(ErrValidationFailed, message).
		WithDetails(map[string]interface{}{"field": field})
}

// Is reports whether err matches target or any of more
func Is(err, target error, more ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range more {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// MessageOf returns the client-facing message carried by err, if any
func MessageOf(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}
