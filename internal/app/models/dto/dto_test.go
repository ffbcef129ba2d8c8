package dto

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func bindingValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func TestQuizSubmitRequest_AnswerBounds(t *testing.T) {
	v := bindingValidator()

	assert.NoError(t, v.Struct(QuizSubmitRequest{Answers: []int{0, 3, 1}}))
	assert.Error(t, v.Struct(QuizSubmitRequest{Answers: []int{}}))
	assert.Error(t, v.Struct(QuizSubmitRequest{Answers: []int{1, -1}}))
	assert.Error(t, v.Struct(QuizSubmitRequest{Answers: []int{1 << 40}}))
}

func TestImportRequest_TextCap(t *testing.T) {
	v := bindingValidator()

	assert.NoError(t, v.Struct(ImportRequest{Text: "LESSON: One"}))
	assert.Error(t, v.Struct(ImportRequest{Text: strings.Repeat("x", 500001)}))
}
