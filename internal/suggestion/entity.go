package suggestion

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/catalog"
	"gorm.io/gorm"
)

// Suggestion is a preset formula for a mood.
type Suggestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MoodType     Mood      `gorm:"type:text;not null;index" json:"mood_type"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	BaseNoteID   uuid.UUID `gorm:"type:uuid;not null" json:"base_note_id"`
	MiddleNoteID uuid.UUID `gorm:"type:uuid;not null" json:"middle_note_id"`
	TopNoteID    uuid.UUID `gorm:"type:uuid;not null" json:"top_note_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	BaseNote   *catalog.ScentNote `gorm:"foreignKey:BaseNoteID" json:"base_note,omitempty"`
	MiddleNote *catalog.ScentNote `gorm:"foreignKey:MiddleNoteID" json:"middle_note,omitempty"`
	TopNote    *catalog.ScentNote `gorm:"foreignKey:TopNoteID" json:"top_note,omitempty"`
}

func (s *Suggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
