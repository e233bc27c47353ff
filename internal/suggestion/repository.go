package suggestion

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Suggestion) error
	List(ctx context.Context, mood *Mood) ([]Suggestion, error)
	CountByMood(ctx context.Context, mood Mood) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Suggestion) error {
	return r.db.WithContext(ctx).Omit("BaseNote", "MiddleNote", "TopNote").Create(s).Error
}

func (r *repository) List(ctx context.Context, mood *Mood) ([]Suggestion, error) {
	var out []Suggestion
	q := r.db.WithContext(ctx).
		Preload("BaseNote").
		Preload("MiddleNote").
		Preload("TopNote")
	if mood != nil {
		q = q.Where("mood_type = ?", *mood)
	}
	if err := q.Order("mood_type ASC").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CountByMood(ctx context.Context, mood Mood) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Suggestion{}).Where("mood_type = ?", mood).Count(&n).Error
	return n, err
}
