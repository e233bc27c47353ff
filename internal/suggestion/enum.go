package suggestion

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
)

type Mood string

const (
	MoodNeutral   Mood = "Neutral"
	MoodConfused  Mood = "Confused"
	MoodUndecided Mood = "Undecided"
)

var AllMoods = []Mood{MoodNeutral, MoodConfused, MoodUndecided}

func ParseMood(s string) (Mood, error) {
	for _, m := range AllMoods {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mood %q", apperr.ErrValidation, s)
}
