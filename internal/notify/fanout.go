// Package notify derives Notification rows from mutation deltas and
// routes them to the right recipients. Fanout is best-effort by contract:
// failures are logged and never abort the mutation that triggered them.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"planboard/internal/model"
	"planboard/internal/repository"
)

// TaskDelta is the before/after snapshot of one task mutation. Before is
// nil for a freshly created task.
type TaskDelta struct {
	Before            *model.Task
	After             *model.Task
	BeforeAssigneeIDs []uuid.UUID
	AfterAssigneeIDs  []uuid.UUID
}

// Audience carries the candidate recipients around one task, resolved by
// the caller: the owning team's leader, all super admins, the task's
// current assignees and the guests scoped to the task's project.
type Audience struct {
	Leader      *model.User
	SuperAdmins []model.User
	Assignees   []model.User
	Guests      []model.User
}

// ComputeTaskUpdates derives the notifications for a task create/update
// delta: status transitions into done or stuck, due-date moves, and new
// assignments. Each candidate is filtered by the recipient's preference
// for the matching category.
func ComputeTaskUpdates(delta TaskDelta, aud Audience) []model.Notification {
	var out []model.Notification
	after := delta.After

	// Status transition into a terminal/alert column. Only fires when the
	// column actually changed.
	if delta.Before != nil && delta.Before.ColumnID != after.ColumnID {
		var text string
		switch after.ColumnID {
		case model.ColumnDone:
			text = completedMessage(after)
		case model.ColumnStuck:
			text = stuckMessage(after)
		}
		if text != "" {
			for _, u := range statusAudience(aud) {
				if u.WantsNotification(model.NotifyStatusChange) {
					out = append(out, model.Notification{UserID: u.ID, TaskID: after.ID, Text: text})
				}
			}
		}
	}

	// Due-date change goes to the current assignees.
	if delta.Before != nil && !delta.Before.EndDate.Equal(after.EndDate) {
		text := dueDateMessage(after)
		for _, u := range aud.Assignees {
			if u.WantsNotification(model.NotifyDueDateChange) {
				out = append(out, model.Notification{UserID: u.ID, TaskID: after.ID, Text: text})
			}
		}
	}

	// Newly added assignees only; existing ones are not re-notified.
	added := addedIDs(delta.BeforeAssigneeIDs, delta.AfterAssigneeIDs)
	if len(added) > 0 {
		text := assignedMessage(after)
		for _, u := range aud.Assignees {
			if added[u.ID] && u.WantsNotification(model.NotifyAssignment) {
				out = append(out, model.Notification{UserID: u.ID, TaskID: after.ID, Text: text})
			}
		}
	}

	return out
}

// ComputeCommentAdded derives the notifications for a new comment: every
// stakeholder of the task except the author, preference-filtered. Guests
// always pass the preference check.
func ComputeCommentAdded(task *model.Task, authorID uuid.UUID, aud Audience) []model.Notification {
	text := commentMessage(task)
	seen := map[uuid.UUID]bool{authorID: true}

	var out []model.Notification
	for _, u := range commentAudience(aud) {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		if u.WantsNotification(model.NotifyComment) {
			out = append(out, model.Notification{UserID: u.ID, TaskID: task.ID, Text: text})
		}
	}
	return out
}

func statusAudience(aud Audience) []model.User {
	var users []model.User
	if aud.Leader != nil {
		users = append(users, *aud.Leader)
	}
	return append(users, aud.SuperAdmins...)
}

func commentAudience(aud Audience) []model.User {
	var users []model.User
	users = append(users, aud.Assignees...)
	if aud.Leader != nil {
		users = append(users, *aud.Leader)
	}
	users = append(users, aud.SuperAdmins...)
	return append(users, aud.Guests...)
}

func addedIDs(before, after []uuid.UUID) map[uuid.UUID]bool {
	old := make(map[uuid.UUID]bool, len(before))
	for _, id := range before {
		old[id] = true
	}
	added := make(map[uuid.UUID]bool)
	for _, id := range after {
		if !old[id] {
			added[id] = true
		}
	}
	return added
}

// Pusher delivers a created notification to a live client, if connected.
type Pusher interface {
	Push(userID uuid.UUID, n *model.Notification)
}

// Fanout resolves audiences from the store, computes notification sets
// and persists them. All methods swallow errors after logging them.
type Fanout struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	teams         *repository.TeamRepository
	projects      *repository.ProjectRepository
	hub           Pusher
	log           *logrus.Logger
}

func NewFanout(
	notifications *repository.NotificationRepository,
	users *repository.UserRepository,
	teams *repository.TeamRepository,
	projects *repository.ProjectRepository,
	hub Pusher,
	log *logrus.Logger,
) *Fanout {
	return &Fanout{
		notifications: notifications,
		users:         users,
		teams:         teams,
		projects:      projects,
		hub:           hub,
		log:           log,
	}
}

// TaskChanged fans out the notifications for a task create/update delta.
func (f *Fanout) TaskChanged(ctx context.Context, delta TaskDelta) {
	aud, err := f.resolveAudience(ctx, delta.After, delta.AfterAssigneeIDs, false)
	if err != nil {
		f.log.WithError(err).WithField("task_id", delta.After.ID).
			Warn("notification fanout: audience resolution failed")
		return
	}
	f.persist(ctx, ComputeTaskUpdates(delta, aud))
}

// CommentAdded fans out the notifications for a new comment.
func (f *Fanout) CommentAdded(ctx context.Context, task *model.Task, authorID uuid.UUID, assigneeIDs []uuid.UUID) {
	aud, err := f.resolveAudience(ctx, task, assigneeIDs, true)
	if err != nil {
		f.log.WithError(err).WithField("task_id", task.ID).
			Warn("notification fanout: audience resolution failed")
		return
	}
	f.persist(ctx, ComputeCommentAdded(task, authorID, aud))
}

func (f *Fanout) resolveAudience(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID, withGuests bool) (Audience, error) {
	var aud Audience

	leader, err := f.projectLeader(ctx, task.ProjectID)
	if err != nil {
		return aud, err
	}
	aud.Leader = leader

	aud.SuperAdmins, err = f.users.GetByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		return aud, err
	}

	aud.Assignees, err = f.users.GetByIDs(ctx, assigneeIDs)
	if err != nil {
		return aud, err
	}

	if withGuests {
		aud.Guests, err = f.users.GetProjectGuests(ctx, task.ProjectID)
		if err != nil {
			return aud, err
		}
	}
	return aud, nil
}

// projectLeader walks project -> team -> leader; any missing link means
// there is simply nobody to notify.
func (f *Fanout) projectLeader(ctx context.Context, projectID uuid.UUID) (*model.User, error) {
	project, err := f.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	team, err := f.teams.GetByID(ctx, project.TeamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID == nil {
		return nil, nil
	}
	leader, err := f.users.GetByID(ctx, *team.LeaderID)
	if err != nil {
		return nil, err
	}
	return leader, nil
}

func (f *Fanout) persist(ctx context.Context, notifications []model.Notification) {
	for i := range notifications {
		n := &notifications[i]
		if err := f.notifications.Create(ctx, n); err != nil {
			f.log.WithError(err).WithFields(logrus.Fields{
				"user_id": n.UserID,
				"task_id": n.TaskID,
			}).Warn("notification fanout: insert failed")
			continue
		}
		f.pushLive(n)
	}
}

// pushLive forwards a stored notification to the user's live
// connections, if any.
func (f *Fanout) pushLive(n *model.Notification) {
	if f.hub != nil {
		f.hub.Push(n.UserID, n)
	}
}
