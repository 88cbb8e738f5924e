package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes money coming in from money going out.
// Income entries are restricted to super admins.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type FinancialTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        TransactionType `gorm:"not null;check:type IN ('income', 'expense')"`
	Date        time.Time       `gorm:"not null"`
	Source      string
	Description string
	Amount      float64   `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectID"`
}
