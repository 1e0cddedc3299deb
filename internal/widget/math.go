package widget

import (
	"strings"
	"time"
)

// Problem is one arithmetic drill item.
type Problem struct {
	Prompt string
	Answer string
}

// MathProblems is the fixed drill.
var MathProblems = []Problem{
	{Prompt: "5 + 3", Answer: "8"},
	{Prompt: "12 - 7", Answer: "5"},
	{Prompt: "4 × 6", Answer: "24"},
	{Prompt: "20 ÷ 4", Answer: "5"},
	{Prompt: "9 + 6", Answer: "15"},
}

// Math is the arithmetic drill. A problem must be answered correctly before
// the drill moves on.
type Math struct {
	problems []Problem
	current  int
	answers  []string
	feedback Feedback
	result   *Result
}

// NewMath starts the drill at the first problem.
func NewMath() *Math {
	return &Math{
		problems: MathProblems,
		answers:  make([]string, len(MathProblems)),
	}
}

func (m *Math) Title() string        { return "Basic Math Problems" }
func (m *Math) Delay() time.Duration { return 1500 * time.Millisecond }
func (m *Math) Feedback() Feedback   { return m.feedback }
func (m *Math) Total() int           { return len(m.problems) }
func (m *Math) Index() int           { return m.current }
func (m *Math) Problem() Problem     { return m.problems[m.current] }
func (m *Math) Answer() string       { return m.answers[m.current] }
func (m *Math) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// SetAnswer records the typed answer for the current problem. Ignored while
// feedback is showing or after the drill is finished.
func (m *Math) SetAnswer(s string) {
	if m.feedback != FeedbackNone || m.result != nil {
		return
	}
	m.answers[m.current] = s
}

// Check grades the current answer. An empty answer is not graded.
func (m *Math) Check() Feedback {
	if m.feedback != FeedbackNone || m.result != nil {
		return m.feedback
	}
	if strings.TrimSpace(m.answers[m.current]) == "" {
		return FeedbackNone
	}
	if m.correct(m.current) {
		m.feedback = FeedbackCorrect
	} else {
		m.feedback = FeedbackIncorrect
	}
	return m.feedback
}

// Advance clears the feedback. After a correct answer it moves to the next
// problem or, on the last one, finishes the drill.
func (m *Math) Advance() {
	fb := m.feedback
	m.feedback = FeedbackNone
	if fb != FeedbackCorrect {
		return
	}
	if m.current < len(m.problems)-1 {
		m.current++
		return
	}
	n := 0
	for i := range m.problems {
		if m.correct(i) {
			n++
		}
	}
	m.result = &Result{Success: true, Score: percent(n, len(m.problems))}
}

func (m *Math) correct(i int) bool {
	return strings.TrimSpace(m.answers[i]) == m.problems[i].Answer
}
