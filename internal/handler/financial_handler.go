package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planboard/internal/model"
	"planboard/internal/service"
)

type FinancialHandler struct {
	financials *service.FinancialService
}

func NewFinancialHandler(financials *service.FinancialService) *FinancialHandler {
	return &FinancialHandler{financials: financials}
}

type FinancialRequest struct {
	ProjectID   string    `json:"project_id" binding:"required,uuid"`
	Type        string    `json:"type" binding:"required,oneof=income expense"`
	Date        time.Time `json:"date" binding:"required"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
}

// Create records a financial entry for a project
// @Summary      Add financial entry
// @Tags         Financials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        entry body FinancialRequest true "Entry"
// @Success      201 {object} model.FinancialTransaction
// @Router       /financials [post]
func (h *FinancialHandler) Create(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req FinancialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	entry, err := h.financials.Add(c.Request.Context(), caller, service.FinancialFields{
		ProjectID:   projectID,
		Type:        model.TransactionType(req.Type),
		Date:        req.Date,
		Source:      req.Source,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
