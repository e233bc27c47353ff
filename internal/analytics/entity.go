package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analytics summarizes one completed session. CompletionTime is in seconds.
type Analytics struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	TotalQuestions     int            `gorm:"not null" json:"total_questions"`
	CompletionTime     int            `gorm:"not null" json:"completion_time"`
	PopularScentNoteID uuid.UUID      `gorm:"type:uuid;not null" json:"popular_scent_note_id"`
	NoteCounts         datatypes.JSON `json:"note_counts,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Analytics) TableName() string {
	return "analytics"
}

func (a *Analytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type AnalyticsView struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	UserName         string         `json:"user_name"`
	SessionID        uuid.UUID      `json:"session_id"`
	TotalQuestions   int            `json:"total_questions"`
	CompletionTime   int            `json:"completion_time"`
	PopularScentNote string         `json:"popular_scent_note"`
	NoteCounts       datatypes.JSON `json:"note_counts,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
