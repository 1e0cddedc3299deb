package tutor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Greeting opens every session.
var Greeting = []string{
	"Welcome to Synthesis Tutor 2.0!",
	"I'm your AI tutor. I can help you learn any subject through personalized, interactive sessions.",
	"What's your name?",
}

const (
	interestsPrompt = "Great! What are you interested in learning? You can tell me a few topics (like math, space, animals, etc.)."
	getStarted      = "Let's get started! What would you like to learn today? You can choose from different modules or just chat with me about any topic."
	saveFailed      = "I'm having trouble saving your information. Please try again."
	chatFailed      = "I'm having trouble processing your message. Please try again."
)

func gradePrompt(name string) string {
	return name + ", nice to meet you! Which grade are you in?"
}

func interestsAck(interests []string) string {
	return "Thanks for sharing! I'll customize your learning experience based on your interests in " + strings.Join(interests, ", ") + "."
}

func moduleIntro(name string) string {
	return fmt.Sprintf(`Great choice! Let's work on "%s". I'll guide you through this module.`, name)
}

// congratulations omits the score sentence for a zero score.
func congratulations(name string, score float64) string {
	if score == 0 {
		return fmt.Sprintf(`Congratulations on completing "%s"! You're making great progress!`, name)
	}
	return fmt.Sprintf(`Congratulations on completing "%s"! You scored %s%%. You're making great progress!`, name, FormatScore(score))
}

// FormatScore renders a score with at most two decimals and no trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score*100)/100, 'f', -1, 64)
}

// ParseInterests splits free text on commas and periods, trims each token
// and drops empty ones. The result is never nil.
func ParseInterests(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '.' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
