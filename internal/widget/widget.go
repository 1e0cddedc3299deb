// Package widget holds the interactive module exercises. Each widget is a
// pure state machine with no timers or I/O; pacing and rendering belong to
// the screens that host them.
package widget

import "time"

// Kind selects which exercise a module runs.
type Kind int

const (
	KindFraction Kind = iota
	KindMath
	KindReading
	KindScience
)

func (k Kind) String() string {
	switch k {
	case KindMath:
		return "math"
	case KindReading:
		return "reading"
	case KindScience:
		return "science"
	default:
		return "fraction"
	}
}

// kindsByName maps registry module names to exercises. Anything else gets
// the fraction quiz.
var kindsByName = map[string]Kind{
	"Introduction to Numbers": KindMath,
	"Reading Comprehension":   KindReading,
	"Basic Science Concepts":  KindScience,
}

// KindFor resolves the exercise for a module name.
func KindFor(name string) Kind {
	if k, ok := kindsByName[name]; ok {
		return k
	}
	return KindFraction
}

// Result is what a finished widget reports.
type Result struct {
	Success bool
	Score   float64
}

// Feedback is the verdict shown after an answer is checked.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

// Widget is the behavior shared by every exercise.
type Widget interface {
	// Title is the exercise heading.
	Title() string

	// Result returns the outcome once the exercise is finished.
	Result() (Result, bool)

	// Delay is how long feedback stays on screen before the widget is
	// advanced or its result delivered.
	Delay() time.Duration
}

// New builds a fresh widget of the given kind.
func New(k Kind) Widget {
	switch k {
	case KindMath:
		return NewMath()
	case KindReading:
		return NewReading()
	case KindScience:
		return NewScience()
	default:
		return NewFraction()
	}
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
