package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planboard/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type ProjectCreateRequest struct {
	Name        string    `json:"name" binding:"required,min=2"`
	Description string    `json:"description"`
	TeamID      string    `json:"team_id" binding:"required,uuid"`
	Budget      float64   `json:"budget" binding:"min=0"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// Create makes a project under a team
// @Summary      Create project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project body ProjectCreateRequest true "Project"
// @Success      201 {object} model.Project
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	teamID, _ := uuid.Parse(req.TeamID)
	project, err := h.projects.Create(c.Request.Context(), caller, service.ProjectCreateFields{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      teamID,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// Delete removes a project and everything it owns
// @Summary      Delete project
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Success      204
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	if err := h.projects.Delete(c.Request.Context(), caller, projectID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
