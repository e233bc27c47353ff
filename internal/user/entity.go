package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is created once at entry and only removed by the cascade delete.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Age       int       `gorm:"not null" json:"age"`
	Gender    Gender    `gorm:"type:text;not null" json:"gender"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserSummary is a user row with the number of sessions it owns.
type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Gender         Gender    `json:"gender"`
	CreatedAt      time.Time `json:"created_at"`
	SessionCount   int64     `json:"session_count"`
	CompletedCount int64     `json:"completed_count"`
}

// DeleteReport counts the rows removed by a cascade delete, per table.
type DeleteReport struct {
	Analytics int64 `json:"analytics"`
	Formulas  int64 `json:"formulas"`
	Responses int64 `json:"responses"`
	Sessions  int64 `json:"sessions"`
	Users     int64 `json:"users"`
}

func (r DeleteReport) Total() int64 {
	return r.Analytics + r.Formulas + r.Responses + r.Sessions + r.Users
}
