package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, notes []*ScentNote) error
	ListAll(ctx context.Context) ([]ScentNote, error)
	ListByCategory(ctx context.Context, category Category) ([]ScentNote, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]ScentNote, error)
	CountByName(ctx context.Context, name string, category Category) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, notes []*ScentNote) error {
	if len(notes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notes).Error
}

func (r *repository) ListAll(ctx context.Context) ([]ScentNote, error) {
	var notes []ScentNote
	if err := r.db.WithContext(ctx).
		Order("category ASC").
		Order("order_index ASC").
		Order("name ASC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repository) ListByCategory(ctx context.Context, category Category) ([]ScentNote, error) {
	var notes []ScentNote
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("order_index ASC").
		Order("name ASC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]ScentNote, error) {
	var notes []ScentNote
	if len(ids) == 0 {
		return notes, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repository) CountByName(ctx context.Context, name string, category Category) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ScentNote{}).
		Where("name = ? AND category = ?", name, category).
		Count(&count).Error
	return count, err
}
