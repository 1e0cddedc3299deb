package widget

import (
	"slices"
	"time"
)

// FractionOptions are the choices offered for the shaded-quarter question.
var FractionOptions = []string{"1/2", "1/4", "1/3", "2/3"}

const fractionAnswer = "1/4"

// Fraction is a single multiple-choice question. The first pick is final: a
// wrong answer locks the widget without completing it.
type Fraction struct {
	selected string
}

func NewFraction() *Fraction { return &Fraction{} }

func (f *Fraction) Title() string        { return "Understanding Fractions" }
func (f *Fraction) Delay() time.Duration { return 2 * time.Second }
func (f *Fraction) Prompt() string {
	return "If this whole shape is 1, what fraction does the highlighted part represent?"
}
func (f *Fraction) Options() []string { return FractionOptions }
func (f *Fraction) Selected() string  { return f.selected }
func (f *Fraction) Answer() string    { return fractionAnswer }

// Locked reports whether an answer has been chosen.
func (f *Fraction) Locked() bool { return f.selected != "" }

// Select records the answer. Ignored once locked or for unknown options.
func (f *Fraction) Select(option string) Feedback {
	if f.Locked() || !slices.Contains(FractionOptions, option) {
		return f.Feedback()
	}
	f.selected = option
	return f.Feedback()
}

func (f *Fraction) Feedback() Feedback {
	switch f.selected {
	case "":
		return FeedbackNone
	case fractionAnswer:
		return FeedbackCorrect
	default:
		return FeedbackIncorrect
	}
}

func (f *Fraction) Result() (Result, bool) {
	if f.selected != fractionAnswer {
		return Result{}, false
	}
	return Result{Success: true, Score: 100}, true
}
