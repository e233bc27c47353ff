package formula

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Formula is created once per completed session and never updated.
type Formula struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	BaseNoteID   uuid.UUID `gorm:"type:uuid;not null" json:"base_note_id"`
	MiddleNoteID uuid.UUID `gorm:"type:uuid;not null" json:"middle_note_id"`
	TopNoteID    uuid.UUID `gorm:"type:uuid;not null" json:"top_note_id"`
	Policy       Policy    `gorm:"type:text;not null" json:"policy"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Formula) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FormulaView is a formula joined with its owner and note names.
type FormulaView struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	BaseNote   string    `json:"base_note"`
	MiddleNote string    `json:"middle_note"`
	TopNote    string    `json:"top_note"`
	Policy     Policy    `json:"policy"`
	CreatedAt  time.Time `json:"created_at"`
}
