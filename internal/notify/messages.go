package notify

import (
	"fmt"
	"time"

	"planboard/internal/model"
)

func completedMessage(task *model.Task) string {
	return fmt.Sprintf("Task %q was completed", task.Title)
}

func stuckMessage(task *model.Task) string {
	return fmt.Sprintf("Task %q is stuck and needs attention", task.Title)
}

func dueDateMessage(task *model.Task) string {
	return fmt.Sprintf("Due date for task %q moved to %s", task.Title, formatDate(task.EndDate))
}

func assignedMessage(task *model.Task) string {
	return fmt.Sprintf("You were assigned to task %q", task.Title)
}

func commentMessage(task *model.Task) string {
	return fmt.Sprintf("New comment on task %q", task.Title)
}

func overdueMessage(task *model.Task) string {
	return fmt.Sprintf("Task %q is overdue since %s", task.Title, formatDate(task.EndDate))
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
