package quiz

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"gorm.io/gorm"
)

// Question is one entry of the question bank. Bank order is ascending
// OrderIndex, which is unique.
type Question struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Text       string       `gorm:"type:text;not null" json:"text"`
	Type       QuestionType `gorm:"type:text;not null" json:"type"`
	OrderIndex int          `gorm:"not null;uniqueIndex" json:"order_index"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

type Option struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"question_id"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	ScentNoteID *uuid.UUID `gorm:"type:uuid" json:"scent_note_id,omitempty"`
	OrderIndex  int        `gorm:"not null;default:0" json:"order_index"`

	ScentNote *catalog.ScentNote `gorm:"foreignKey:ScentNoteID" json:"scent_note,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Option returns the option with the given id, if it belongs to q.
func (q Question) Option(id uuid.UUID) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
