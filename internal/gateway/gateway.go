// Package gateway is the single persistence entry point of the quiz: every
// write the session runner needs, transactions, the cascade delete and
// schema migration, over one explicitly passed *gorm.DB.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/analytics"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"github.com/saulo-duarte/scent-quiz/internal/formula"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
	"github.com/saulo-duarte/scent-quiz/internal/session"
	"github.com/saulo-duarte/scent-quiz/internal/suggestion"
	"github.com/saulo-duarte/scent-quiz/internal/user"
	"gorm.io/gorm"
)

var ErrSessionNotInProgress = fmt.Errorf("%w: session is missing or already completed", apperr.ErrConflict)

var (
	_ session.Store = (*Gateway)(nil)
	_ user.Purger   = (*Gateway)(nil)
)

type Gateway struct {
	db        *gorm.DB
	users     user.UserRepository
	notes     catalog.Repository
	questions quiz.Repository
	formulas  formula.Repository
	analytics analytics.Repository
}

func New(db *gorm.DB) *Gateway {
	return &Gateway{
		db:        db,
		users:     user.NewRepository(db),
		notes:     catalog.NewRepository(db),
		questions: quiz.NewRepository(db),
		formulas:  formula.NewRepository(db),
		analytics: analytics.NewRepository(db),
	}
}

// Migrate creates or updates every table in dependency order.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&user.User{},
		&catalog.ScentNote{},
		&quiz.Question{},
		&quiz.Option{},
		&session.Session{},
		&session.Response{},
		&formula.Formula{},
		&analytics.Analytics{},
		&suggestion.Suggestion{},
	)
}

// InTx runs fn against a gateway bound to one database transaction. fn's
// error rolls everything back.
func (g *Gateway) InTx(ctx context.Context, fn func(session.Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// CreateUser fails with user.ErrDuplicateEmail on a taken email.
func (g *Gateway) CreateUser(ctx context.Context, name, email string, age int, gender user.Gender) (uuid.UUID, error) {
	u := &user.User{Name: name, Email: email, Age: age, Gender: gender}
	if err := g.users.Create(ctx, u); err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}

// GetUserByEmail returns nil, nil when no user has that email.
func (g *Gateway) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return g.users.GetByEmail(ctx, email)
}

func (g *Gateway) ListUsers(ctx context.Context) ([]user.UserSummary, error) {
	return g.users.ListSummaries(ctx)
}

func (g *Gateway) ListNotesByCategory(ctx context.Context, category catalog.Category) ([]catalog.ScentNote, error) {
	return g.notes.ListByCategory(ctx, category)
}

// ListQuestions returns the bank in order, options preloaded.
func (g *Gateway) ListQuestions(ctx context.Context) ([]quiz.Question, error) {
	return g.questions.ListQuestions(ctx)
}

func (g *Gateway) ListOptions(ctx context.Context, questionID uuid.UUID) ([]quiz.Option, error) {
	return g.questions.ListOptions(ctx, questionID)
}

func (g *Gateway) CreateSession(ctx context.Context, userID uuid.UUID, startedAt time.Time) (*session.Session, error) {
	s := &session.Session{UserID: userID, StartedAt: startedAt}
	if err := g.db.WithContext(ctx).Omit("User").Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// CompleteSession sets completed_at once. A missing or already completed
// session fails with ErrSessionNotInProgress.
func (g *Gateway) CompleteSession(ctx context.Context, sessionID uuid.UUID, completedAt time.Time) error {
	res := g.db.WithContext(ctx).
		Model(&session.Session{}).
		Where("id = ? AND completed_at IS NULL", sessionID).
		Update("completed_at", completedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotInProgress
	}
	return nil
}

func (g *Gateway) CreateResponse(ctx context.Context, sessionID, questionID, optionID uuid.UUID, at time.Time) (*session.Response, error) {
	r := &session.Response{
		SessionID:    sessionID,
		QuestionID:   questionID,
		OptionID:     optionID,
		ResponseTime: at,
	}
	if err := g.db.WithContext(ctx).Omit("Session", "Question", "Option").Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

func (g *Gateway) CreateFormula(ctx context.Context, f *formula.Formula) error {
	return g.formulas.Create(ctx, f)
}

func (g *Gateway) CreateAnalytics(ctx context.Context, a *analytics.Analytics) error {
	return g.analytics.Create(ctx, a)
}

// DeleteUserCascade removes analytics, formulas, responses and sessions of
// the user, then the user row unless keepUser is set, children first in one
// transaction. Running it again reports zero rows.
func (g *Gateway) DeleteUserCascade(ctx context.Context, userID uuid.UUID, keepUser bool) (user.DeleteReport, error) {
	var report user.DeleteReport

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessionIDs := func() *gorm.DB {
			return tx.Model(&session.Session{}).Select("id").Where("user_id = ?", userID)
		}

		res := tx.Where("user_id = ? OR session_id IN (?)", userID, sessionIDs()).Delete(&analytics.Analytics{})
		if res.Error != nil {
			return fmt.Errorf("delete analytics: %w", res.Error)
		}
		report.Analytics = res.RowsAffected

		res = tx.Where("session_id IN (?)", sessionIDs()).Delete(&formula.Formula{})
		if res.Error != nil {
			return fmt.Errorf("delete formulas: %w", res.Error)
		}
		report.Formulas = res.RowsAffected

		res = tx.Where("session_id IN (?)", sessionIDs()).Delete(&session.Response{})
		if res.Error != nil {
			return fmt.Errorf("delete responses: %w", res.Error)
		}
		report.Responses = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&session.Session{})
		if res.Error != nil {
			return fmt.Errorf("delete sessions: %w", res.Error)
		}
		report.Sessions = res.RowsAffected

		if !keepUser {
			res = tx.Where("id = ?", userID).Delete(&user.User{})
			if res.Error != nil {
				return fmt.Errorf("delete user: %w", res.Error)
			}
			report.Users = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return user.DeleteReport{}, err
	}
	return report, nil
}
