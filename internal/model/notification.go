package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is derived state: created only by the fanout, mutated only
// to flip Read, never deleted. There is no retention policy; the table
// grows unbounded.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"not null"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
