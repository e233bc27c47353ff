package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
)

// Store is the persistence the runner needs. Implementations decide whether
// InTx is atomic.
type Store interface {
	ListQuestions(ctx context.Context) ([]quiz.Question, error)
	CreateSession(ctx context.Context, userID uuid.UUID, startedAt time.Time) (*Session, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID, completedAt time.Time) error
	CreateResponse(ctx context.Context, sessionID, questionID, optionID uuid.UUID, at time.Time) (*Response, error)
	CreateFormula(ctx context.Context, f *formula.Formula) error
	CreateAnalytics(ctx context.Context, a *analytics.Analytics) error
	InTx(ctx context.Context, fn func(Store) error) error
}

// Deriver turns the answers of a session into a formula selection.
type Deriver interface {
	Derive(ctx context.Context, answers []formula.Answer) (formula.Selection, error)
}

// Recorder builds the analytics row of a completed session.
type Recorder interface {
	Record(userID, sessionID uuid.UUID, sel formula.Selection, answers []formula.Answer) (*analytics.Analytics, error)
}
