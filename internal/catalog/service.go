package catalog

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/config"
)

type Service interface {
	ListNotes(ctx context.Context, category string) ([]ScentNote, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ListNotes lists the whole catalog, or one category when category is set.
func (s *service) ListNotes(ctx context.Context, category string) ([]ScentNote, error) {
	log := config.WithContext(ctx)

	var (
		notes []ScentNote
		err   error
	)
	if category == "" {
		notes, err = s.repo.ListAll(ctx)
	} else {
		c, perr := ParseCategory(category)
		if perr != nil {
			return nil, perr
		}
		notes, err = s.repo.ListByCategory(ctx, c)
	}
	if err != nil {
		log.WithError(err).Error("Failed to list scent notes")
		return nil, fmt.Errorf("%w: list scent notes: %w", apperr.ErrPersistence, err)
	}
	return notes, nil
}
