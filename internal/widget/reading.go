package widget

import (
	"errors"
	"slices"
	"time"
)

// ErrNoSelection is returned when advancing a question with nothing chosen.
var ErrNoSelection = errors.New("no option selected")

// Passage is the reading comprehension text.
const Passage = "The small brown dog ran quickly across the green field. He was chasing a red ball that his owner had thrown. The sun was shining brightly in the blue sky."

// Question is one multiple-choice item.
type Question struct {
	Prompt  string
	Options []string
	Answer  string
}

// ReadingQuestions are asked in order about Passage.
var ReadingQuestions = []Question{
	{Prompt: "What color was the dog?", Options: []string{"Black", "Brown", "White", "Grey"}, Answer: "Brown"},
	{Prompt: "What was the dog chasing?", Options: []string{"A cat", "A frisbee", "A red ball", "A squirrel"}, Answer: "A red ball"},
	{Prompt: "Where did the dog run?", Options: []string{"On the beach", "In the house", "Across the green field", "Through the park"}, Answer: "Across the green field"},
}

// Reading is the comprehension quiz. Wrong answers still advance; the score
// counts the right ones.
type Reading struct {
	questions    []Question
	current      int
	answers      map[int]string
	showFeedback bool
	result       *Result
}

func NewReading() *Reading {
	return &Reading{questions: ReadingQuestions, answers: make(map[int]string)}
}

func (r *Reading) Title() string         { return "Reading Comprehension" }
func (r *Reading) Delay() time.Duration  { return 0 }
func (r *Reading) Passage() string       { return Passage }
func (r *Reading) Total() int            { return len(r.questions) }
func (r *Reading) Index() int            { return r.current }
func (r *Reading) Question() Question    { return r.questions[r.current] }
func (r *Reading) Selected() string      { return r.answers[r.current] }
func (r *Reading) ShowingFeedback() bool { return r.showFeedback }

func (r *Reading) Result() (Result, bool) {
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

// Select chooses an option for the current question. Unknown options and
// changes while feedback is showing are ignored.
func (r *Reading) Select(option string) {
	if r.showFeedback || r.result != nil {
		return
	}
	if !slices.Contains(r.questions[r.current].Options, option) {
		return
	}
	r.answers[r.current] = option
}

// Feedback reports whether the current selection is right. Only meaningful
// while feedback is showing.
func (r *Reading) Feedback() Feedback {
	if !r.showFeedback {
		return FeedbackNone
	}
	if r.answers[r.current] == r.questions[r.current].Answer {
		return FeedbackCorrect
	}
	return FeedbackIncorrect
}

// Next first reveals feedback for the current question, then on the
// following call moves on or finishes the quiz.
func (r *Reading) Next() error {
	if r.result != nil {
		return nil
	}
	if !r.showFeedback {
		if r.answers[r.current] == "" {
			return ErrNoSelection
		}
		r.showFeedback = true
		return nil
	}
	r.showFeedback = false
	if r.current < len(r.questions)-1 {
		r.current++
		return nil
	}
	n := 0
	for i, q := range r.questions {
		if r.answers[i] == q.Answer {
			n++
		}
	}
	r.result = &Result{Success: true, Score: percent(n, len(r.questions))}
	return nil
}
