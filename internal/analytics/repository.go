package analytics

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Analytics) error
	ListViews(ctx context.Context, userID *uuid.UUID) ([]AnalyticsView, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Analytics) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListViews(ctx context.Context, userID *uuid.UUID) ([]AnalyticsView, error) {
	var views []AnalyticsView
	q := r.db.WithContext(ctx).
		Table("analytics AS a").
		Select(`a.id, a.user_id, u.name AS user_name, a.session_id,
			a.total_questions, a.completion_time, n.name AS popular_scent_note,
			a.note_counts, a.created_at`).
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN scent_notes n ON n.id = a.popular_scent_note_id")
	if userID != nil {
		q = q.Where("a.user_id = ?", *userID)
	}
	if err := q.Order("a.created_at DESC").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
