package widget

import "time"

// Step is one page of the science walkthrough.
type Step struct {
	Title string
	Intro string
	Lines []string
}

// ScienceSteps is the fixed walkthrough.
var ScienceSteps = []Step{
	{
		Title: "States of Matter",
		Intro: "Matter exists in three main states:",
		Lines: []string{
			"Solid",
			"Liquid",
			"Gas",
			"Water can exist in all three states: ice (solid), water (liquid), and steam (gas).",
		},
	},
	{
		Title: "The Solar System",
		Intro: "Our solar system consists of:",
		Lines: []string{
			"The Sun (a star at the center)",
			"Eight planets (Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune)",
			"Dwarf planets (like Pluto)",
			"Moons, asteroids, and comets",
		},
	},
	{
		Title: "Living Things",
		Intro: "All living things share these characteristics:",
		Lines: []string{
			"They need food and water",
			"They grow and develop",
			"They reproduce",
			"They respond to their environment",
			"They use energy",
		},
	},
}

// Science is the three-step walkthrough. Steps can be visited in any order;
// it completes once every step is marked understood.
type Science struct {
	steps     []Step
	current   int
	completed []bool
}

func NewScience() *Science {
	return &Science{steps: ScienceSteps, completed: make([]bool, len(ScienceSteps))}
}

func (s *Science) Title() string        { return "Basic Science Concepts" }
func (s *Science) Delay() time.Duration { return time.Second }
func (s *Science) Total() int           { return len(s.steps) }
func (s *Science) Index() int           { return s.current }
func (s *Science) Step() Step           { return s.steps[s.current] }
func (s *Science) Completed(i int) bool { return i >= 0 && i < len(s.completed) && s.completed[i] }

// Goto shows step i. Out-of-range indexes are ignored.
func (s *Science) Goto(i int) {
	if i >= 0 && i < len(s.steps) {
		s.current = i
	}
}

// Understand marks the current step as understood and reports whether all
// steps now are.
func (s *Science) Understand() bool {
	s.completed[s.current] = true
	return s.allDone()
}

func (s *Science) Result() (Result, bool) {
	if !s.allDone() {
		return Result{}, false
	}
	return Result{Success: true, Score: 100}, true
}

func (s *Science) allDone() bool {
	for _, c := range s.completed {
		if !c {
			return false
		}
	}
	return true
}
