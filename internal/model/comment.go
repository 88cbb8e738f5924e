package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null"`
	Text      string     `gorm:"not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid"` // threaded reply parent
	CreatedAt time.Time  `gorm:"autoCreateTime"`

	Task   Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID"`
}
