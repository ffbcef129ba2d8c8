package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
)

// Validation rule patterns
var (
	// Setting keys such as "support_email" or "academy.default_pass_score"
	SettingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,99}$`)
)

// Rules maps custom tag names to their validation functions
var Rules = map[string]validator.Func{
	"user_role": func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	},
	"survey_question_type": func(fl validator.FieldLevel) bool {
		switch models.QuestionType(fl.Field().String()) {
		case models.QuestionText, models.QuestionSingleChoice, models.QuestionMultiChoice, models.QuestionRating:
			return true
		}
		return false
	},
	"setting_key": func(fl validator.FieldLevel) bool {
		return SettingKeyPattern.MatchString(fl.Field().String())
	},
}

// Register adds the custom rules to v
func Register(v *validator.Validate) error {
	for tag, fn := range Rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin adds the custom rules to gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
