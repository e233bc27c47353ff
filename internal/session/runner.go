package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
)

var (
	ErrNoQuestions     = fmt.Errorf("%w: question bank is empty", apperr.ErrDataIntegrity)
	ErrSessionCreation = fmt.Errorf("%w: could not create session", apperr.ErrPersistence)
	ErrIncompleteQuiz  = fmt.Errorf("%w: every question must be answered before submitting", apperr.ErrValidation)
	ErrSubmission      = fmt.Errorf("%w: could not submit session", apperr.ErrPersistence)
	ErrUnknownOption   = fmt.Errorf("%w: option does not belong to the question", apperr.ErrValidation)
	ErrQuestionIndex   = fmt.Errorf("%w: question index out of range", apperr.ErrValidation)
	ErrNotStarted      = fmt.Errorf("%w: session has not started", apperr.ErrConflict)
	ErrAlreadyStarted  = fmt.Errorf("%w: session already started", apperr.ErrConflict)
	ErrSessionClosed   = fmt.Errorf("%w: session is already completed", apperr.ErrConflict)
)

// IncompleteError lists the zero-based indices of unanswered questions.
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: unanswered questions %v", ErrIncompleteQuiz, e.Missing)
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteQuiz
}

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is what a successful submission wrote.
type Result struct {
	Session   Session
	Responses []Response
	Selection formula.Selection
	Formula   *formula.Formula
	Analytics *analytics.Analytics
}

// Runner drives one user through the question bank. It is not safe for
// concurrent use; one actor owns a runner at a time.
type Runner struct {
	store    Store
	deriver  Deriver
	recorder Recorder
	now      func() time.Time

	state     State
	session   *Session
	questions []quiz.Question
	slots     []uuid.UUID
	current   int
	display   []uuid.UUID
}

type RunnerOption func(*Runner)

func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(store Store, deriver Deriver, recorder Recorder, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:    store,
		deriver:  deriver,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start loads the bank before writing the session row, so an empty bank
// leaves nothing behind.
func (r *Runner) Start(ctx context.Context, userID uuid.UUID) error {
	switch r.state {
	case StateInProgress:
		return ErrAlreadyStarted
	case StateCompleted:
		return ErrSessionClosed
	}

	questions, err := r.store.ListQuestions(ctx)
	if err != nil {
		return fmt.Errorf("%w: list questions: %w", apperr.ErrPersistence, err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	sess, err := r.store.CreateSession(ctx, userID, r.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSessionCreation, err)
	}

	r.session = sess
	r.questions = questions
	r.slots = make([]uuid.UUID, len(questions))
	r.current = 0
	r.display = nil
	r.state = StateInProgress
	return nil
}

func (r *Runner) State() State {
	return r.state
}

// Session returns a copy of the session row, or nil before Start.
func (r *Runner) Session() *Session {
	if r.session == nil {
		return nil
	}
	s := *r.session
	return &s
}

func (r *Runner) Questions() []quiz.Question {
	return r.questions
}

func (r *Runner) CurrentIndex() int {
	return r.current
}

func (r *Runner) CurrentQuestion() (quiz.Question, error) {
	if err := r.ensureInProgress(); err != nil {
		return quiz.Question{}, err
	}
	return r.questions[r.current], nil
}

// Answer returns the option recorded for index, if any.
func (r *Runner) Answer(index int) (uuid.UUID, bool) {
	if index < 0 || index >= len(r.slots) || r.slots[index] == uuid.Nil {
		return uuid.Nil, false
	}
	return r.slots[index], true
}

// Displayed returns the selection shown for the current question.
func (r *Runner) Displayed() []uuid.UUID {
	return slices.Clone(r.display)
}

// Missing lists unanswered question indices in bank order.
func (r *Runner) Missing() []int {
	var missing []int
	for i, id := range r.slots {
		if id == uuid.Nil {
			missing = append(missing, i)
		}
	}
	return missing
}

func (r *Runner) ensureInProgress() error {
	switch r.state {
	case StateNotStarted:
		return ErrNotStarted
	case StateCompleted:
		return ErrSessionClosed
	}
	return nil
}

func (r *Runner) validateSelection(index int, selection []uuid.UUID) error {
	q := r.questions[index]
	for _, id := range selection {
		if _, ok := q.Option(id); !ok {
			return fmt.Errorf("%w: option %s on question %d", ErrUnknownOption, id, index)
		}
	}
	return nil
}

// RecordAnswer overwrites the slot at index. Only the last id of selection
// is kept, whatever the question type; an empty selection unsets the slot.
func (r *Runner) RecordAnswer(index int, selection ...uuid.UUID) error {
	if err := r.ensureInProgress(); err != nil {
		return err
	}
	if index < 0 || index >= len(r.questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrQuestionIndex, index, len(r.questions))
	}
	if err := r.validateSelection(index, selection); err != nil {
		return err
	}

	if len(selection) == 0 {
		r.slots[index] = uuid.Nil
	} else {
		r.slots[index] = selection[len(selection)-1]
	}
	if index == r.current {
		r.display = slices.Clone(selection)
	}
	return nil
}

// Select replaces the displayed selection of the current question. It is
// committed by Advance, Retreat and Submit.
func (r *Runner) Select(selection ...uuid.UUID) error {
	if err := r.ensureInProgress(); err != nil {
		return err
	}
	if err := r.validateSelection(r.current, selection); err != nil {
		return err
	}
	r.display = slices.Clone(selection)
	return nil
}

func (r *Runner) commit() error {
	return r.RecordAnswer(r.current, r.display...)
}

func (r *Runner) moveTo(index int) {
	index = max(0, min(index, len(r.questions)-1))
	if index == r.current {
		return
	}
	r.current = index
	if id := r.slots[index]; id != uuid.Nil {
		r.display = []uuid.UUID{id}
	} else {
		r.display = nil
	}
}

// Advance commits the displayed answer and moves forward. At the last
// question it only commits.
func (r *Runner) Advance() error {
	if err := r.ensureInProgress(); err != nil {
		return err
	}
	if err := r.commit(); err != nil {
		return err
	}
	r.moveTo(r.current + 1)
	return nil
}

// Retreat commits the displayed answer and moves back. At the first question
// it only commits.
func (r *Runner) Retreat() error {
	if err := r.ensureInProgress(); err != nil {
		return err
	}
	if err := r.commit(); err != nil {
		return err
	}
	r.moveTo(r.current - 1)
	return nil
}

func (r *Runner) answers() []formula.Answer {
	out := make([]formula.Answer, len(r.questions))
	for i, q := range r.questions {
		opt, _ := q.Option(r.slots[i])
		out[i] = formula.Answer{
			QuestionID:  q.ID,
			OptionID:    r.slots[i],
			ScentNoteID: opt.ScentNoteID,
		}
	}
	return out
}

// Submit commits the displayed answer and, when every question is answered,
// writes the responses in bank order, the formula, the analytics row and the
// completion time through one Store.InTx call. An incomplete quiz fails with
// *IncompleteError and writes nothing.
func (r *Runner) Submit(ctx context.Context) (*Result, error) {
	if err := r.ensureInProgress(); err != nil {
		return nil, err
	}
	if err := r.commit(); err != nil {
		return nil, err
	}
	if missing := r.Missing(); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	answers := r.answers()
	sel, err := r.deriver.Derive(ctx, answers)
	if err != nil {
		return nil, err
	}
	stats, err := r.recorder.Record(r.session.UserID, r.session.ID, sel, answers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	f := sel.Formula(r.session.ID)

	var responses []Response
	var completedAt time.Time
	err = r.store.InTx(ctx, func(tx Store) error {
		responses = make([]Response, 0, len(answers))
		for i, a := range answers {
			resp, err := tx.CreateResponse(ctx, r.session.ID, a.QuestionID, a.OptionID, r.now())
			if err != nil {
				return fmt.Errorf("create response %d: %w", i, err)
			}
			responses = append(responses, *resp)
		}
		if err := tx.CreateFormula(ctx, f); err != nil {
			return fmt.Errorf("create formula: %w", err)
		}
		if err := tx.CreateAnalytics(ctx, stats); err != nil {
			return fmt.Errorf("create analytics: %w", err)
		}
		completedAt = r.now()
		if err := tx.CompleteSession(ctx, r.session.ID, completedAt); err != nil {
			return fmt.Errorf("complete session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmission, err)
	}

	r.session.CompletedAt = &completedAt
	r.state = StateCompleted

	return &Result{
		Session:   *r.session,
		Responses: responses,
		Selection: sel,
		Formula:   f,
		Analytics: stats,
	}, nil
}
