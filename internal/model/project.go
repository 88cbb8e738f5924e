package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Budget      float64   `gorm:"not null;default:0"`
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time

	Team Team `gorm:"foreignKey:TeamID"`
}
