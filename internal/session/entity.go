package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/quiz"
	"github.com/saulo-duarte/scent-quiz/internal/user"
	"gorm.io/gorm"
)

// Session is one attempt at the quiz. CompletedAt is set exactly once, at
// submission.
type Session struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	User *user.User `gorm:"foreignKey:UserID" json:"-"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Session) IsCompleted() bool {
	return s.CompletedAt != nil
}

type Response struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	OptionID     uuid.UUID `gorm:"type:uuid;not null" json:"option_id"`
	ResponseTime time.Time `gorm:"not null" json:"response_time"`

	Session  *Session       `gorm:"foreignKey:SessionID" json:"-"`
	Question *quiz.Question `gorm:"foreignKey:QuestionID" json:"-"`
	Option   *quiz.Option   `gorm:"foreignKey:OptionID" json:"-"`
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ResponseDetail is a stored answer joined with its question, option and
// scent note. QuestionOrder is the question's bank position.
type ResponseDetail struct {
	ID            uuid.UUID `json:"id"`
	QuestionID    uuid.UUID `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	QuestionOrder int       `json:"question_order"`
	OptionID      uuid.UUID `json:"option_id"`
	OptionText    string    `json:"option_text"`
	ScentNote     *string   `json:"scent_note,omitempty"`
	NoteCategory  *string   `json:"note_category,omitempty"`
	ResponseTime  time.Time `json:"response_time"`
}
