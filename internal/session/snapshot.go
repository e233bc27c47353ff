package session

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
)

var ErrInvalidSnapshot = fmt.Errorf("%w: invalid session snapshot", apperr.ErrDataIntegrity)

// Snapshot is the serializable state of an in-progress runner. Questions is
// the bank as it was when the session started.
type Snapshot struct {
	Session   Session         `json:"session"`
	Questions []quiz.Question `json:"questions"`
	Slots     []uuid.UUID     `json:"slots"`
	Current   int             `json:"current"`
	Display   []uuid.UUID     `json:"display,omitempty"`
	State     State           `json:"state"`
}

func (r *Runner) Snapshot() Snapshot {
	snap := Snapshot{
		Questions: r.questions,
		Slots:     slices.Clone(r.slots),
		Current:   r.current,
		Display:   slices.Clone(r.display),
		State:     r.state,
	}
	if r.session != nil {
		snap.Session = *r.session
	}
	return snap
}

// Restore rebuilds a runner from a snapshot taken by Runner.Snapshot.
func Restore(snap Snapshot, store Store, deriver Deriver, recorder Recorder, opts ...RunnerOption) (*Runner, error) {
	if snap.State != StateInProgress && snap.State != StateCompleted {
		return nil, fmt.Errorf("%w: state %s", ErrInvalidSnapshot, snap.State)
	}
	if len(snap.Questions) == 0 || len(snap.Slots) != len(snap.Questions) {
		return nil, fmt.Errorf("%w: %d slots for %d questions", ErrInvalidSnapshot, len(snap.Slots), len(snap.Questions))
	}
	if snap.Current < 0 || snap.Current >= len(snap.Questions) {
		return nil, fmt.Errorf("%w: current index %d", ErrInvalidSnapshot, snap.Current)
	}

	r := NewRunner(store, deriver, recorder, opts...)
	sess := snap.Session
	r.session = &sess
	r.questions = snap.Questions
	r.slots = slices.Clone(snap.Slots)
	r.current = snap.Current
	r.display = slices.Clone(snap.Display)
	r.state = snap.State
	return r, nil
}
