package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planboard/internal/model"
	"planboard/internal/service"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type TaskCreateRequest struct {
	ProjectID   string    `json:"project_id" binding:"required,uuid"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ParentID    *string   `json:"parent_id" binding:"omitempty,uuid"`
	AssigneeIDs []string  `json:"assignee_ids" binding:"dive,uuid"`
}

type TaskUpdateRequest struct {
	Title             string     `json:"title" binding:"required"`
	Description       string     `json:"description"`
	ColumnID          string     `json:"column_id" binding:"required"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	BaselineStartDate *time.Time `json:"baseline_start_date"`
	BaselineEndDate   *time.Time `json:"baseline_end_date"`
	PlannedCost       float64    `json:"planned_cost"`
	ActualCost        float64    `json:"actual_cost"`
	IsMilestone       bool       `json:"is_milestone"`
	ParentID          *string    `json:"parent_id" binding:"omitempty,uuid"`
	AssigneeIDs       []string   `json:"assignee_ids" binding:"dive,uuid"`
}

type BulkTaskRequest struct {
	Tasks []BulkTaskItem `json:"tasks" binding:"required,dive"`
}

type BulkTaskItem struct {
	ID            string    `json:"id" binding:"required,uuid"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DependencyIDs []string  `json:"dependency_ids" binding:"dive,uuid"`
}

type CommentRequest struct {
	Text     string  `json:"text" binding:"required"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

// Create adds a task to a project
// @Summary      Create task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task body TaskCreateRequest true "Task"
// @Success      201 {object} view.Task
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	fields := service.TaskCreateFields{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ParentID:    parseOptionalUUID(req.ParentID),
		AssigneeIDs: parseUUIDs(req.AssigneeIDs),
	}

	task, err := h.tasks.Create(c.Request.Context(), caller, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update overwrites a task's fields and assignee set
// @Summary      Update task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        task body TaskUpdateRequest true "Fields"
// @Success      200 {object} view.Task
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fields := service.TaskFields{
		Title:             req.Title,
		Description:       req.Description,
		ColumnID:          model.Column(req.ColumnID),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		BaselineStartDate: req.BaselineStartDate,
		BaselineEndDate:   req.BaselineEndDate,
		PlannedCost:       req.PlannedCost,
		ActualCost:        req.ActualCost,
		IsMilestone:       req.IsMilestone,
		ParentID:          parseOptionalUUID(req.ParentID),
		AssigneeIDs:       parseUUIDs(req.AssigneeIDs),
	}

	task, err := h.tasks.Update(c.Request.Context(), caller, taskID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// BulkUpdate applies schedule/dependency edits to a batch of tasks
// @Summary      Bulk-update task schedules and dependencies
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        batch body BulkTaskRequest true "Batch"
// @Success      200 {array} view.Task
// @Router       /tasks/bulk-update [post]
func (h *TaskHandler) BulkUpdate(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req BulkTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	batch := make([]service.BulkTaskFields, len(req.Tasks))
	for i, item := range req.Tasks {
		id, _ := uuid.Parse(item.ID)
		batch[i] = service.BulkTaskFields{
			TaskID:        id,
			StartDate:     item.StartDate,
			EndDate:       item.EndDate,
			DependencyIDs: parseUUIDs(item.DependencyIDs),
		}
	}

	tasks, err := h.tasks.BulkUpdate(c.Request.Context(), caller, batch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// AddComment appends a comment and returns the whole task
// @Summary      Comment on a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        comment body CommentRequest true "Comment"
// @Success      200 {object} view.Task
// @Router       /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.AddComment(c.Request.Context(), caller, taskID, req.Text, parseOptionalUUID(req.ParentID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func parseUUIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func parseOptionalUUID(raw *string) *uuid.UUID {
	if raw == nil {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}
