package quiz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateWithOptions(ctx context.Context, q *Question) error
	ListQuestions(ctx context.Context) ([]Question, error)
	ListOptions(ctx context.Context, questionID uuid.UUID) ([]Option, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Question, error)
	NextOrderIndex(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

// CreateWithOptions stores the question and its options in one transaction.
func (r *repository) CreateWithOptions(ctx context.Context, q *Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		options := q.Options
		q.Options = nil
		if err := tx.Create(q).Error; err != nil {
			return err
		}

		for i := range options {
			options[i].QuestionID = q.ID
			if options[i].OrderIndex == 0 {
				options[i].OrderIndex = i + 1
			}
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		q.Options = options
		return nil
	})
}

// ListQuestions returns the bank in order with options and their notes preloaded.
func (r *repository) ListQuestions(ctx context.Context) ([]Question, error) {
	var questions []Question
	if err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Preload("Options.ScentNote").
		Order("order_index ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *repository) ListOptions(ctx context.Context, questionID uuid.UUID) ([]Option, error) {
	var options []Option
	if err := r.db.WithContext(ctx).
		Preload("ScentNote").
		Where("question_id = ?", questionID).
		Order("order_index ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Preload("Options.ScentNote").
		First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) NextOrderIndex(ctx context.Context) (int, error) {
	var maxIndex int64
	if err := r.db.WithContext(ctx).
		Model(&Question{}).
		Select("COALESCE(MAX(order_index), 0)").
		Row().
		Scan(&maxIndex); err != nil {
		return 0, err
	}
	return int(maxIndex) + 1, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Question{}, "id = ?", id).Error
	})
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Question{}).Count(&count).Error
	return count, err
}
