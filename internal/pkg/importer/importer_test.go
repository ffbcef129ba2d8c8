package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLessons(t *testing.T) {
	text := `Some preamble that is ignored
LESSON: Safeguarding basics
Why safeguarding matters.
SLIDE: Definitions
Safeguarding means protecting people.
Everyone is responsible.
slide: Reporting
Use the reporting channel.

lesson: Code of conduct
SLIDE: Principles
Respect and dignity.`

	res := ParseLessons(text)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 0, res.Skipped)

	first := res.Items[0]
	assert.Equal(t, "Safeguarding basics", first.Title)
	assert.Equal(t, "Why safeguarding matters.", first.Description)
	require.Len(t, first.Slides, 2)
	assert.Equal(t, "Definitions", first.Slides[0].Title)
	assert.Equal(t, "Safeguarding means protecting people.\nEveryone is responsible.", first.Slides[0].Content)
	assert.Equal(t, "Reporting", first.Slides[1].Title)

	second := res.Items[1]
	assert.Equal(t, "Code of conduct", second.Title)
	assert.Empty(t, second.Description)
	require.Len(t, second.Slides, 1)
	assert.Equal(t, "Respect and dignity.", second.Slides[0].Content)
}

func TestParseLessons_SkipsUntitled(t *testing.T) {
	res := ParseLessons("LESSON:\nSLIDE: orphan\nLESSON: Kept\r\nSLIDE: One\r\nbody")

	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Kept", res.Items[0].Title)
	assert.Equal(t, "body", res.Items[0].Slides[0].Content)
}

func TestParseLessons_Empty(t *testing.T) {
	res := ParseLessons("no markers here\nat all")
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Skipped)
}

func TestParseQuestions_ExactAnswerSetsIndex(t *testing.T) {
	text := `Q1: Who can report a safeguarding concern?
- Only managers
- Anyone
- Only HR
A1: Anyone

Q2: What is PSEA?
- Protection from Sexual Exploitation and Abuse
- Public Service Employee Agreement
A2: protection from sexual exploitation and abuse`

	res := ParseQuestions(text)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 0, res.Skipped)

	assert.Equal(t, "Who can report a safeguarding concern?", res.Items[0].Text)
	assert.Equal(t, []string{"Only managers", "Anyone", "Only HR"}, res.Items[0].Options)
	assert.Equal(t, 1, res.Items[0].CorrectAnswer)
	assert.Equal(t, 0, res.Items[1].CorrectAnswer)
}

func TestParseQuestions_LetterOptionsAndAnswers(t *testing.T) {
	text := `Q1: Pick the third option
A) first
B) second
C) third
A1: C`

	res := ParseQuestions(text)
	require.Len(t, res.Items, 1)
	assert.Equal(t, []string{"first", "second", "third"}, res.Items[0].Options)
	assert.Equal(t, 2, res.Items[0].CorrectAnswer)
}

func TestParseQuestions_SkipsMalformedBlocks(t *testing.T) {
	text := `Q1: Only one option
- lonely
A1: lonely
Q2: No answer line
- yes
- no
Q3: Answer matches nothing
- yes
- no
A3: maybe
Q4: Multi-line
question text
- yes
- no
A4: no`

	res := ParseQuestions(text)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, "Multi-line\nquestion text", res.Items[0].Text)
	assert.Equal(t, 1, res.Items[0].CorrectAnswer)
}

func TestMatchAnswer(t *testing.T) {
	opts := []string{"Yes", "No", "Not sure"}
	assert.Equal(t, 2, MatchAnswer("  not SURE ", opts))
	assert.Equal(t, 1, MatchAnswer("b", opts))
	assert.Equal(t, -1, MatchAnswer("z", opts))
	assert.Equal(t, -1, MatchAnswer("7", opts))
}

func TestParseObjectives_Bullets(t *testing.T) {
	text := `Objectives:
- Understand the reporting chain
* Identify risks
• Apply the code of conduct
1. Complete the quiz
2026 is not a bullet`

	res := ParseObjectives(text)
	assert.Equal(t, []string{
		"Understand the reporting chain",
		"Identify risks",
		"Apply the code of conduct",
		"Complete the quiz",
	}, res.Items)
}

func TestParseObjectives_PlainLines(t *testing.T) {
	res := ParseObjectives("Know the policy\n\n  Use the hotline  \n")
	assert.Equal(t, []string{"Know the policy", "Use the hotline"}, res.Items)
}

func TestParseLessons_LongLineDoesNotTruncate(t *testing.T) {
	long := strings.Repeat("x", 1100*1024)
	res := ParseLessons("LESSON: One\nSLIDE: S\n" + long + "\nLESSON: Two\nLESSON: Three\n")

	require.Len(t, res.Items, 3)
	assert.Equal(t, 0, res.Skipped)
	assert.Len(t, res.Items[0].Slides[0].Content, len(long))
	assert.Equal(t, "Three", res.Items[2].Title)
}

func TestParseLessons_SkipsOverlongTitles(t *testing.T) {
	title := strings.Repeat("t", MaxTitleLength+1)
	text := "LESSON: " + title + "\nSLIDE: a\n" +
		"LESSON: Fine\nSLIDE: " + title + "\n" +
		"LESSON: " + strings.Repeat("é", MaxTitleLength) + "\nSLIDE: ok\n"

	res := ParseLessons(text)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, strings.Repeat("é", MaxTitleLength), res.Items[0].Title)
}
