package model

import (
	"time"

	"github.com/google/uuid"
)

// Column is a task's board column, doubling as its workflow status.
type Column string

const (
	ColumnNotStarted Column = "not-started"
	ColumnInProgress Column = "in-progress"
	ColumnStuck      Column = "stuck"
	ColumnDone       Column = "done"
)

func (c Column) Valid() bool {
	switch c {
	case ColumnNotStarted, ColumnInProgress, ColumnStuck, ColumnDone:
		return true
	}
	return false
}

type Task struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title             string     `gorm:"not null"`
	Description       string
	ColumnID          Column     `gorm:"not null;default:'not-started'"`
	StartDate         time.Time
	EndDate           time.Time
	BaselineStartDate *time.Time
	BaselineEndDate   *time.Time
	PlannedCost       float64    `gorm:"not null;default:0"`
	ActualCost        float64    `gorm:"not null;default:0"`
	IsMilestone       bool       `gorm:"not null;default:false"`
	ParentID          *uuid.UUID `gorm:"type:uuid"` // sub-task parent
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
}

// TaskAssignee links a task to one of its assignees.
type TaskAssignee struct {
	TaskID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;index"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TaskDependency is a directed predecessor edge: DependsOnID must finish
// before TaskID. The edge set per project must stay acyclic.
type TaskDependency struct {
	TaskID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	DependsOnID uuid.UUID `gorm:"type:uuid;primaryKey;index"`

	Task      Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	DependsOn Task `gorm:"foreignKey:DependsOnID;constraint:OnDelete:CASCADE"`
}
