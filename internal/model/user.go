package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	AvatarURL      string
	Role           Role       `gorm:"not null;check:role IN ('super_admin', 'team_leader', 'employee', 'guest')"`
	TeamID         *uuid.UUID `gorm:"type:uuid;index"` // set for team_leader and employee
	ProjectID      *uuid.UUID `gorm:"type:uuid;index"` // set for guest only
	Disabled       bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time

	NotifyOnAssignment    bool `gorm:"not null;default:true"`
	NotifyOnComment       bool `gorm:"not null;default:true"`
	NotifyOnStatusChange  bool `gorm:"not null;default:true"`
	NotifyOnDueDateChange bool `gorm:"not null;default:true"`
}

// NotificationCategory selects one of the per-user notification switches.
type NotificationCategory int

const (
	NotifyAssignment NotificationCategory = iota
	NotifyComment
	NotifyStatusChange
	NotifyDueDateChange
)

// WantsNotification reports whether the user accepts notifications of the
// given category. Guests cannot edit preferences and always receive.
func (u *User) WantsNotification(cat NotificationCategory) bool {
	if u.Role == RoleGuest {
		return true
	}
	switch cat {
	case NotifyAssignment:
		return u.NotifyOnAssignment
	case NotifyComment:
		return u.NotifyOnComment
	case NotifyStatusChange:
		return u.NotifyOnStatusChange
	case NotifyDueDateChange:
		return u.NotifyOnDueDateChange
	}
	return false
}
