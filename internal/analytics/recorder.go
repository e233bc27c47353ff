package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
)

const DefaultCompletionTime = 120

// Recorder builds the summary record of a completed session. The completion
// time is a fixed value, not a measurement.
type Recorder struct {
	completionTime int
}

func NewRecorder(completionTimeSeconds int) *Recorder {
	if completionTimeSeconds <= 0 {
		completionTimeSeconds = DefaultCompletionTime
	}
	return &Recorder{completionTime: completionTimeSeconds}
}

// Record reports the top note of the formula as the popular note. NoteCounts
// keeps the real tally of notes referenced by the answers.
func (r *Recorder) Record(userID, sessionID uuid.UUID, sel formula.Selection, answers []formula.Answer) (*Analytics, error) {
	counts := make(map[string]int)
	for id, n := range formula.Tally(answers) {
		counts[id.String()] = n
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return nil, fmt.Errorf("encode note counts: %w", err)
	}

	return &Analytics{
		UserID:             userID,
		SessionID:          sessionID,
		TotalQuestions:     len(answers),
		CompletionTime:     r.completionTime,
		PopularScentNoteID: sel.Top.ID,
		NoteCounts:         raw,
	}, nil
}
