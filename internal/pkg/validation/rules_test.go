package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Role string `validate:"omitempty,user_role"`
	Type string `validate:"omitempty,survey_question_type"`
	Key  string `validate:"omitempty,setting_key"`
}

func TestRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(sample{Role: "MANAGER", Type: "RATING", Key: "support_email"}))
	assert.Error(t, v.Struct(sample{Role: "STUDENT"}))
	assert.Error(t, v.Struct(sample{Type: "ESSAY"}))
	assert.Error(t, v.Struct(sample{Key: "Has Spaces"}))
}

func TestRegisterWithGin(t *testing.T) {
	assert.NoError(t, RegisterWithGin())
}
