package formula

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
)

var ErrEmptyCategory = fmt.Errorf("%w: scent note category has no notes", apperr.ErrDataIntegrity)

// NoteSource lists the catalog notes of one category in catalog order.
type NoteSource interface {
	ListByCategory(ctx context.Context, category catalog.Category) ([]catalog.ScentNote, error)
}

// Answer is one recorded response as seen by the engine.
type Answer struct {
	QuestionID  uuid.UUID
	OptionID    uuid.UUID
	ScentNoteID *uuid.UUID
}

// Selection is a derived formula before it is persisted.
type Selection struct {
	Base   catalog.ScentNote
	Middle catalog.ScentNote
	Top    catalog.ScentNote
	Policy Policy
}

// Formula binds the selection to a session.
func (s Selection) Formula(sessionID uuid.UUID) *Formula {
	return &Formula{
		SessionID:    sessionID,
		BaseNoteID:   s.Base.ID,
		MiddleNoteID: s.Middle.ID,
		TopNoteID:    s.Top.ID,
		Policy:       s.Policy,
	}
}

// Tally counts how often each scent note is referenced by the answers.
// Answers whose option carries no note are skipped.
func Tally(answers []Answer) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, a := range answers {
		if a.ScentNoteID != nil {
			counts[*a.ScentNoteID]++
		}
	}
	return counts
}

type Engine struct {
	notes  NoteSource
	policy Policy

	mu  sync.Mutex
	rnd *rand.Rand
}

type EngineOption func(*Engine)

// WithRand makes UNIFORM_RANDOM draw from r instead of the global source.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) {
		e.rnd = r
	}
}

func NewEngine(notes NoteSource, policy Policy, opts ...EngineOption) *Engine {
	if !policy.IsValid() {
		policy = DefaultPolicy
	}
	e := &Engine{
		notes:  notes,
		policy: policy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Derive picks exactly one note per category. A category without notes is a
// data error and aborts the derivation.
func (e *Engine) Derive(ctx context.Context, answers []Answer) (Selection, error) {
	tally := Tally(answers)
	sel := Selection{Policy: e.policy}

	for _, category := range catalog.AllCategories {
		notes, err := e.notes.ListByCategory(ctx, category)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: list %s notes: %w", apperr.ErrPersistence, category, err)
		}
		if len(notes) == 0 {
			return Selection{}, fmt.Errorf("%w: %s", ErrEmptyCategory, category)
		}

		note := e.pick(notes, tally)
		switch category {
		case catalog.CategoryTop:
			sel.Top = note
		case catalog.CategoryMiddle:
			sel.Middle = note
		case catalog.CategoryBase:
			sel.Base = note
		}
	}
	return sel, nil
}

func (e *Engine) pick(notes []catalog.ScentNote, tally map[uuid.UUID]int) catalog.ScentNote {
	switch e.policy {
	case PolicyUniformRandom:
		return notes[e.intN(len(notes))]
	case PolicyMostFrequentNote:
		return mostFrequent(notes, tally)
	default:
		return notes[0]
	}
}

func (e *Engine) intN(n int) int {
	if e.rnd == nil {
		return rand.IntN(n)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.IntN(n)
}

// mostFrequent keeps the earliest note on ties, so a category nobody voted
// for falls back to catalog order.
func mostFrequent(notes []catalog.ScentNote, tally map[uuid.UUID]int) catalog.ScentNote {
	best := notes[0]
	bestCount := tally[best.ID]
	for _, n := range notes[1:] {
		if c := tally[n.ID]; c > bestCount {
			best, bestCount = n, c
		}
	}
	return best
}
