// Package importer turns pasted plain text into lessons, quiz questions and learning
// objectives. Each parser is a single pass over the input lines; blocks that cannot be
// turned into a record are skipped and counted.
package importer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength bounds lesson and slide titles.
const MaxTitleLength = 200

// Slide is one slide of an imported lesson.
type Slide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Lesson is an imported lesson with its slides in input order.
type Lesson struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Slides      []Slide `json:"slides"`
}

// Question is an imported multiple-choice quiz question.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Result carries the parsed records and how many blocks were skipped.
type Result[T any] struct {
	Items   []T `json:"items"`
	Skipped int `json:"skipped"`
}

var (
	lessonPrefix   = regexp.MustCompile(`(?i)^LESSON\s*:\s*(.*)$`)
	slidePrefix    = regexp.MustCompile(`(?i)^SLIDE\s*:\s*(.*)$`)
	questionPrefix = regexp.MustCompile(`(?i)^Q\d+\s*[:.)]\s*(.*)$`)
	answerPrefix   = regexp.MustCompile(`(?i)^A\d+\s*[:.)]\s*(.*)$`)
	letterOption   = regexp.MustCompile(`^([A-Za-z])[).]\s+(.+)$`)
	bulletPrefix   = regexp.MustCompile(`^(?:[-*•]\s*|\d+[.)]\s+)(.+)$`)
)

func lines(text string) []string {
	out := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range out {
		out[i] = strings.TrimSpace(line)
	}
	return out
}

func appendLine(dst, line string) string {
	if dst == "" {
		return line
	}
	return dst + "\n" + line
}

// ParseLessons parses blocks of the form
//
//	LESSON: Title
//	optional description lines
//	SLIDE: Slide title
//	slide content lines
//
// Lines before the first LESSON marker are ignored. Lessons without a title, or with a
// lesson or slide title longer than MaxTitleLength, are skipped.
func ParseLessons(text string) Result[Lesson] {
	res := Result[Lesson]{Items: make([]Lesson, 0)}
	var cur *Lesson

	flush := func() {
		if cur == nil {
			return
		}
		if !cur.valid() {
			res.Skipped++
		} else {
			res.Items = append(res.Items, *cur)
		}
		cur = nil
	}

	for _, line := range lines(text) {
		if m := lessonPrefix.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Lesson{Title: strings.TrimSpace(m[1]), Slides: make([]Slide, 0)}
			continue
		}
		if cur == nil || line == "" {
			continue
		}
		if m := slidePrefix.FindStringSubmatch(line); m != nil {
			cur.Slides = append(cur.Slides, Slide{Title: strings.TrimSpace(m[1])})
			continue
		}
		if n := len(cur.Slides); n > 0 {
			cur.Slides[n-1].Content = appendLine(cur.Slides[n-1].Content, line)
		} else {
			cur.Description = appendLine(cur.Description, line)
		}
	}
	flush()

	return res
}

func (l *Lesson) valid() bool {
	if l.Title == "" || utf8.RuneCountInString(l.Title) > MaxTitleLength {
		return false
	}
	for _, sl := range l.Slides {
		if utf8.RuneCountInString(sl.Title) > MaxTitleLength {
			return false
		}
	}
	return true
}

type questionBlock struct {
	text    string
	options []string
	answer  string
	hasAns  bool
}

// ParseQuestions parses blocks of the form
//
//	Q1: Question text
//	- option one
//	- option two
//	A1: option two
//
// The answer must equal one of the options (case-insensitive) or be a single option letter.
// Blocks with no text, fewer than two options or an unmatched answer are skipped.
func ParseQuestions(text string) Result[Question] {
	res := Result[Question]{Items: make([]Question, 0)}
	var cur *questionBlock

	flush := func() {
		if cur == nil {
			return
		}
		if q, ok := cur.build(); ok {
			res.Items = append(res.Items, q)
		} else {
			res.Skipped++
		}
		cur = nil
	}

	for _, line := range lines(text) {
		if line == "" {
			continue
		}
		if m := questionPrefix.FindStringSubmatch(line); m != nil {
			flush()
			cur = &questionBlock{text: strings.TrimSpace(m[1])}
			continue
		}
		if cur == nil {
			continue
		}
		if m := answerPrefix.FindStringSubmatch(line); m != nil {
			cur.answer = strings.TrimSpace(m[1])
			cur.hasAns = true
			continue
		}
		if strings.HasPrefix(line, "-") {
			if opt := strings.TrimSpace(strings.TrimPrefix(line, "-")); opt != "" {
				cur.options = append(cur.options, opt)
			}
			continue
		}
		if m := letterOption.FindStringSubmatch(line); m != nil {
			cur.options = append(cur.options, strings.TrimSpace(m[2]))
			continue
		}
		// Continuation of the question text before any option appears.
		if len(cur.options) == 0 {
			cur.text = appendLine(cur.text, line)
		}
	}
	flush()

	return res
}

func (b *questionBlock) build() (Question, bool) {
	if b.text == "" || len(b.options) < 2 || !b.hasAns {
		return Question{}, false
	}
	idx := MatchAnswer(b.answer, b.options)
	if idx < 0 {
		return Question{}, false
	}
	return Question{Text: b.text, Options: b.options, CorrectAnswer: idx}, true
}

// MatchAnswer returns the index of the option equal to answer (trimmed, case-insensitive).
// A single letter answer is read as an option position (A = 0). It returns -1 on no match.
func MatchAnswer(answer string, options []string) int {
	answer = strings.TrimSpace(answer)
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return i
		}
	}
	if len(answer) == 1 {
		c := answer[0] | 0x20
		if c >= 'a' && c <= 'z' {
			if idx := int(c - 'a'); idx < len(options) {
				return idx
			}
		}
	}
	return -1
}

// ParseObjectives returns one objective per bullet line (-, *, • or "1."). When the text
// has no bullets at all, every non-blank line is an objective.
func ParseObjectives(text string) Result[string] {
	all := lines(text)
	res := Result[string]{Items: make([]string, 0)}

	for _, line := range all {
		if m := bulletPrefix.FindStringSubmatch(line); m != nil {
			res.Items = append(res.Items, strings.TrimSpace(m[1]))
		}
	}
	if len(res.Items) > 0 {
		return res
	}

	for _, line := range all {
		if line != "" {
			res.Items = append(res.Items, line)
		}
	}
	return res
}
