package notify_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"planboard/internal/model"
	"planboard/internal/notify"
)

func user(role model.Role) model.User {
	return model.User{
		ID:                    uuid.New(),
		Role:                  role,
		NotifyOnAssignment:    true,
		NotifyOnComment:       true,
		NotifyOnStatusChange:  true,
		NotifyOnDueDateChange: true,
	}
}

func recipients(notifs []model.Notification) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(notifs))
	for _, n := range notifs {
		out[n.UserID] = true
	}
	return out
}

func TestComputeTaskUpdates_StatusToDone(t *testing.T) {
	leader := user(model.RoleTeamLeader)
	admin := user(model.RoleSuperAdmin)
	assignee := user(model.RoleEmployee)

	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	before := &model.Task{ID: uuid.New(), Title: "Ship", ColumnID: model.ColumnInProgress, EndDate: end}
	after := &model.Task{ID: before.ID, Title: "Ship", ColumnID: model.ColumnDone, EndDate: end}

	notifs := notify.ComputeTaskUpdates(
		notify.TaskDelta{
			Before:            before,
			After:             after,
			BeforeAssigneeIDs: []uuid.UUID{assignee.ID},
			AfterAssigneeIDs:  []uuid.UUID{assignee.ID},
		},
		notify.Audience{Leader: &leader, SuperAdmins: []model.User{admin}, Assignees: []model.User{assignee}},
	)

	got := recipients(notifs)
	assert.True(t, got[leader.ID])
	assert.True(t, got[admin.ID])
	// Assignees are not part of the status audience.
	assert.False(t, got[assignee.ID])
	for _, n := range notifs {
		assert.Contains(t, n.Text, "completed")
	}
}

func TestComputeTaskUpdates_StatusUnchanged_NoFire(t *testing.T) {
	leader := user(model.RoleTeamLeader)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	task := &model.Task{ID: uuid.New(), Title: "Steady", ColumnID: model.ColumnDone, EndDate: end}

	notifs := notify.ComputeTaskUpdates(
		notify.TaskDelta{Before: task, After: task},
		notify.Audience{Leader: &leader},
	)
	assert.Empty(t, notifs)
}

func TestComputeTaskUpdates_StatusToInProgress_NoFire(t *testing.T) {
	leader := user(model.RoleTeamLeader)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	before := &model.Task{ID: uuid.New(), Title: "Rolling", ColumnID: model.ColumnNotStarted, EndDate: end}
	after := &model.Task{ID: before.ID, Title: "Rolling", ColumnID: model.ColumnInProgress, EndDate: end}

	// Only transitions into done or stuck notify.
	notifs := notify.ComputeTaskUpdates(
		notify.TaskDelta{Before: before, After: after},
		notify.Audience{Leader: &leader},
	)
	assert.Empty(t, notifs)
}

func TestComputeTaskUpdates_DueDateChange(t *testing.T) {
	a := user(model.RoleEmployee)
	b := user(model.RoleEmployee)
	b.NotifyOnDueDateChange = false

	before := &model.Task{ID: uuid.New(), Title: "Slip", ColumnID: model.ColumnInProgress,
		EndDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
	after := &model.Task{ID: before.ID, Title: "Slip", ColumnID: model.ColumnInProgress,
		EndDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)}

	ids := []uuid.UUID{a.ID, b.ID}
	notifs := notify.ComputeTaskUpdates(
		notify.TaskDelta{Before: before, After: after, BeforeAssigneeIDs: ids, AfterAssigneeIDs: ids},
		notify.Audience{Assignees: []model.User{a, b}},
	)

	// b opted out of due-date notifications.
	assert.Len(t, notifs, 1)
	assert.Equal(t, a.ID, notifs[0].UserID)
	assert.Contains(t, notifs[0].Text, "April 15, 2026")
}

func TestComputeTaskUpdates_NewAssignmentOnly(t *testing.T) {
	existing := user(model.RoleEmployee)
	added := user(model.RoleEmployee)

	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	before := &model.Task{ID: uuid.New(), Title: "Join", ColumnID: model.ColumnInProgress, EndDate: end}
	after := &model.Task{ID: before.ID, Title: "Join", ColumnID: model.ColumnInProgress, EndDate: end}

	notifs := notify.ComputeTaskUpdates(
		notify.TaskDelta{
			Before:            before,
			After:             after,
			BeforeAssigneeIDs: []uuid.UUID{existing.ID},
			AfterAssigneeIDs:  []uuid.UUID{existing.ID, added.ID},
		},
		notify.Audience{Assignees: []model.User{existing, added}},
	)

	assert.Len(t, notifs, 1)
	assert.Equal(t, added.ID, notifs[0].UserID)
	assert.Contains(t, notifs[0].Text, "assigned to task")
}

func TestComputeTaskUpdates_CreateNotifiesAllAssignees(t *testing.T) {
	a := user(model.RoleEmployee)
	b := user(model.RoleEmployee)

	created := &model.Task{ID: uuid.New(), Title: "Fresh", ColumnID: model.ColumnNotStarted,
		EndDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}

	notifs := notify.ComputeTaskUpdates(
		notify.TaskDelta{
			Before:           nil, // create
			After:            created,
			AfterAssigneeIDs: []uuid.UUID{a.ID, b.ID},
		},
		notify.Audience{Assignees: []model.User{a, b}},
	)

	got := recipients(notifs)
	assert.Len(t, notifs, 2)
	assert.True(t, got[a.ID])
	assert.True(t, got[b.ID])
}

func TestComputeCommentAdded(t *testing.T) {
	leader := user(model.RoleTeamLeader)
	admin := user(model.RoleSuperAdmin)
	assignee := user(model.RoleEmployee)
	guest := user(model.RoleGuest)
	// A guest's preference flags are irrelevant; guests always receive.
	guest.NotifyOnComment = false

	task := &model.Task{ID: uuid.New(), Title: "Discuss", ProjectID: uuid.New()}
	author := assignee

	notifs := notify.ComputeCommentAdded(task, author.ID, notify.Audience{
		Leader:      &leader,
		SuperAdmins: []model.User{admin},
		Assignees:   []model.User{assignee},
		Guests:      []model.User{guest},
	})

	got := recipients(notifs)
	assert.True(t, got[leader.ID])
	assert.True(t, got[admin.ID])
	assert.True(t, got[guest.ID])
	// The author never gets their own comment echoed back.
	assert.False(t, got[author.ID])
}

func TestComputeCommentAdded_PreferenceOptOut(t *testing.T) {
	leader := user(model.RoleTeamLeader)
	leader.NotifyOnComment = false
	author := user(model.RoleSuperAdmin)

	task := &model.Task{ID: uuid.New(), Title: "Quiet"}

	notifs := notify.ComputeCommentAdded(task, author.ID, notify.Audience{
		Leader:      &leader,
		SuperAdmins: []model.User{author},
	})
	assert.Empty(t, notifs)
}

func TestComputeCommentAdded_NoDuplicateForOverlappingRoles(t *testing.T) {
	// The leader also being an assignee must yield one notification.
	leader := user(model.RoleTeamLeader)
	author := user(model.RoleEmployee)

	task := &model.Task{ID: uuid.New(), Title: "Overlap"}

	notifs := notify.ComputeCommentAdded(task, author.ID, notify.Audience{
		Leader:    &leader,
		Assignees: []model.User{leader, author},
	})
	assert.Len(t, notifs, 1)
	assert.Equal(t, leader.ID, notifs[0].UserID)
}
