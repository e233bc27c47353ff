package suggestion

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type SuggestionService interface {
	// ListSuggestions lists every preset when mood is empty.
	ListSuggestions(ctx context.Context, mood string) ([]Suggestion, error)
}

type suggestionService struct {
	repo Repository
}

func NewService(repo Repository) SuggestionService {
	return &suggestionService{repo: repo}
}

func (s *suggestionService) ListSuggestions(ctx context.Context, mood string) ([]Suggestion, error) {
	var filter *Mood
	if mood != "" {
		m, err := ParseMood(mood)
		if err != nil {
			return nil, err
		}
		filter = &m
	}

	out, err := s.repo.List(ctx, filter)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list suggestions")
		return nil, fmt.Errorf("%w: list suggestions: %w", apperr.ErrPersistence, err)
	}
	return out, nil
}
