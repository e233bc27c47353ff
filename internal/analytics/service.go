package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type AnalyticsService interface {
	ListAnalytics(ctx context.Context, userID *uuid.UUID) ([]AnalyticsView, error)
}

type analyticsService struct {
	repo Repository
}

func NewService(repo Repository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) ListAnalytics(ctx context.Context, userID *uuid.UUID) ([]AnalyticsView, error) {
	views, err := s.repo.ListViews(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list analytics")
		return nil, fmt.Errorf("%w: list analytics: %w", apperr.ErrPersistence, err)
	}
	return views, nil
}
