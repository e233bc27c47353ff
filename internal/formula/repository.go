package formula

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, f *Formula) error
	ListViews(ctx context.Context, userID *uuid.UUID) ([]FormulaView, error)
	GetViewBySession(ctx context.Context, sessionID uuid.UUID) (*FormulaView, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Formula) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("formulas AS f").
		Select(`f.id, f.session_id, s.user_id, u.name AS user_name,
			b.name AS base_note, m.name AS middle_note, t.name AS top_note,
			f.policy, f.created_at`).
		Joins("JOIN sessions s ON s.id = f.session_id").
		Joins("JOIN users u ON u.id = s.user_id").
		Joins("JOIN scent_notes b ON b.id = f.base_note_id").
		Joins("JOIN scent_notes m ON m.id = f.middle_note_id").
		Joins("JOIN scent_notes t ON t.id = f.top_note_id")
}

// ListViews returns the newest formulas first, optionally for one user only.
func (r *repository) ListViews(ctx context.Context, userID *uuid.UUID) ([]FormulaView, error) {
	var views []FormulaView
	q := r.views(ctx)
	if userID != nil {
		q = q.Where("s.user_id = ?", *userID)
	}
	if err := q.Order("f.created_at DESC").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) GetViewBySession(ctx context.Context, sessionID uuid.UUID) (*FormulaView, error) {
	var view FormulaView
	err := r.views(ctx).Where("f.session_id = ?", sessionID).Take(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}
