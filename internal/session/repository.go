package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository serves session reads outside the runner.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	ListResponseDetails(ctx context.Context, sessionID uuid.UUID) ([]ResponseDetail, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	var sessions []Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListResponseDetails returns the answers of a session in bank order.
func (r *repository) ListResponseDetails(ctx context.Context, sessionID uuid.UUID) ([]ResponseDetail, error) {
	var details []ResponseDetail
	if err := r.db.WithContext(ctx).
		Table("responses AS r").
		Select(`r.id, r.question_id, q.text AS question_text, q.order_index AS question_order,
			r.option_id, o.text AS option_text, n.name AS scent_note, n.category AS note_category,
			r.response_time`).
		Joins("JOIN questions q ON q.id = r.question_id").
		Joins("JOIN options o ON o.id = r.option_id").
		Joins("LEFT JOIN scent_notes n ON n.id = o.scent_note_id").
		Where("r.session_id = ?", sessionID).
		Order("q.order_index ASC, q.id ASC").
		Scan(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}
