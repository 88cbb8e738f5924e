package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planboard/internal/apperr"
	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/repository"
)

type FinancialService struct {
	financials *repository.FinancialRepository
	projects   *repository.ProjectRepository
}

func NewFinancialService(financials *repository.FinancialRepository, projects *repository.ProjectRepository) *FinancialService {
	return &FinancialService{financials: financials, projects: projects}
}

type FinancialFields struct {
	ProjectID   uuid.UUID
	Type        model.TransactionType
	Date        time.Time
	Source      string
	Description string
	Amount      float64
}

// Add records a financial entry. Income is super-admin only; expenses
// may also come from the owning team's leader. The entry leads the
// project's most-recent-first list on the next read.
func (s *FinancialService) Add(ctx context.Context, caller identity.Caller, fields FinancialFields) (*model.FinancialTransaction, error) {
	if !fields.Type.Valid() {
		return nil, apperr.Validationf("unknown transaction type %q", fields.Type)
	}
	if fields.Amount <= 0 {
		return nil, apperr.Validationf("amount must be positive")
	}

	project, err := s.projects.GetByID(ctx, fields.ProjectID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := authz.CanAddFinancial(caller, project, fields.Type); err != nil {
		return nil, err
	}

	entry := &model.FinancialTransaction{
		ID:          uuid.New(),
		ProjectID:   fields.ProjectID,
		Type:        fields.Type,
		Date:        fields.Date,
		Source:      fields.Source,
		Description: fields.Description,
		Amount:      fields.Amount,
	}
	if err := s.financials.Create(ctx, entry); err != nil {
		return nil, apperr.Transaction(err)
	}
	return entry, nil
}
