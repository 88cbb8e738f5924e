package model

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string     `gorm:"not null"`
	LeaderID  *uuid.UUID `gorm:"type:uuid"` // a user with role team_leader
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}
