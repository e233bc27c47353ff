package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScentNote is static reference data. Within a category, OrderIndex defines
// catalog order.
type ScentNote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Category   Category  `gorm:"type:text;not null;index" json:"category"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
}

func (n *ScentNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
