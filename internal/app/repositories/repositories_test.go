package repositories

import (
	"testing"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, "%safeguarding%", searchPattern("safeguarding"))
	assert.Equal(t, `%50\%%`, searchPattern("50%"))
	assert.Equal(t, `%code\_of\_conduct%`, searchPattern("code_of_conduct"))
	assert.Equal(t, `%C:\\docs%`, searchPattern(`C:\docs`))
	assert.Equal(t, `100\%%`, prefixPattern("100%"))
}

func TestResponseInsert_AnonymousHasNoAuthor(t *testing.T) {
	resp := &models.SurveyResponse{SurveyID: 4, Answers: map[string]interface{}{"1": 5}}

	sql, args, err := responseInsert(resp).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO survey_responses (survey_id,user_id,answers) VALUES ($1,$2,$3) RETURNING id, submitted_at", sql)
	require.Len(t, args, 3)
	assert.Equal(t, int64(4), args[0])
	assert.Nil(t, args[1])
	assert.NotContains(t, sql, "respondent")

	sql, args, err = participantInsert(4, 7).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO survey_participants (survey_id,user_id) VALUES ($1,$2)", sql)
	assert.Equal(t, []interface{}{int64(4), int64(7)}, args)
}
