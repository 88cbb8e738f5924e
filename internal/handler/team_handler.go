package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planboard/internal/service"
)

type TeamHandler struct {
	teams *service.TeamService
}

func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

type TeamRequest struct {
	Name      string   `json:"name" binding:"required,min=2"`
	LeaderID  *string  `json:"leader_id" binding:"omitempty,uuid"`
	MemberIDs []string `json:"member_ids" binding:"dive,uuid"`
}

type TeamMembersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,dive,uuid"`
}

// Create makes a team with an initial member set
// @Summary      Create team
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        team body TeamRequest true "Team"
// @Success      201 {object} service.TeamResult
// @Router       /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.teams.Create(c.Request.Context(), caller, req.Name,
		parseOptionalUUID(req.LeaderID), parseUUIDs(req.MemberIDs))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Update renames a team and reconciles its member set
// @Summary      Update team
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Param        team body TeamRequest true "Team"
// @Success      200 {object} service.TeamResult
// @Router       /teams/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID format"})
		return
	}

	var req TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.teams.Update(c.Request.Context(), caller, teamID, req.Name,
		parseOptionalUUID(req.LeaderID), parseUUIDs(req.MemberIDs))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes a team, releasing its members
// @Summary      Delete team
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Success      200 {array} view.User
// @Router       /teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID format"})
		return
	}

	released, err := h.teams.Delete(c.Request.Context(), caller, teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_users": released})
}

// Members lists a team's roster
// @Summary      List team members
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Success      200 {array} view.User
// @Router       /teams/{id}/members [get]
func (h *TeamHandler) Members(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID format"})
		return
	}

	users, err := h.teams.Members(c.Request.Context(), caller, teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AddMembers attaches users to a team
// @Summary      Add team members
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Param        members body TeamMembersRequest true "Members"
// @Success      200 {array} view.User
// @Router       /teams/{id}/members [post]
func (h *TeamHandler) AddMembers(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID format"})
		return
	}

	var req TeamMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	users, err := h.teams.AddMembers(c.Request.Context(), caller, teamID, parseUUIDs(req.UserIDs))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// RemoveMember detaches one user from a team
// @Summary      Remove team member
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Team ID"
// @Param        user_id path string true "User ID"
// @Success      200 {object} view.User
// @Router       /teams/{id}/members/{user_id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID format"})
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	user, err := h.teams.RemoveMember(c.Request.Context(), caller, teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
