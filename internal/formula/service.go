package formula

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

var ErrFormulaNotFound = fmt.Errorf("%w: formula not found", apperr.ErrNotFound)

type FormulaService interface {
	ListFormulas(ctx context.Context, userID *uuid.UUID) ([]FormulaView, error)
	GetForSession(ctx context.Context, sessionID uuid.UUID, ownerID *uuid.UUID) (*FormulaView, error)
}

type formulaService struct {
	repo Repository
}

func NewService(repo Repository) FormulaService {
	return &formulaService{repo: repo}
}

// ListFormulas lists every formula when userID is nil.
func (s *formulaService) ListFormulas(ctx context.Context, userID *uuid.UUID) ([]FormulaView, error) {
	views, err := s.repo.ListViews(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list formulas")
		return nil, fmt.Errorf("%w: list formulas: %w", apperr.ErrPersistence, err)
	}
	return views, nil
}

// GetForSession hides formulas of other users behind ErrFormulaNotFound when
// ownerID is set.
func (s *formulaService) GetForSession(ctx context.Context, sessionID uuid.UUID, ownerID *uuid.UUID) (*FormulaView, error) {
	log := config.WithContext(ctx).WithField("session_id", sessionID)

	view, err := s.repo.GetViewBySession(ctx, sessionID)
	if err != nil {
		log.WithError(err).Error("Failed to get formula")
		return nil, fmt.Errorf("%w: get formula: %w", apperr.ErrPersistence, err)
	}
	if view == nil || (ownerID != nil && view.UserID != *ownerID) {
		return nil, ErrFormulaNotFound
	}
	return view, nil
}
