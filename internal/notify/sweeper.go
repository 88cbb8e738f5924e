package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"planboard/internal/model"
	"planboard/internal/repository"
)

// Sweeper periodically notifies team leaders about overdue tasks. Runs
// are idempotent: an identical unread notification suppresses the insert,
// so overlapping or redundant sweeps are harmless.
type Sweeper struct {
	tasks         *repository.TaskRepository
	notifications *repository.NotificationRepository
	fanout        *Fanout
	interval      time.Duration
	log           *logrus.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(
	tasks *repository.TaskRepository,
	notifications *repository.NotificationRepository,
	fanout *Fanout,
	interval time.Duration,
	log *logrus.Logger,
) *Sweeper {
	return &Sweeper{
		tasks:         tasks,
		notifications: notifications,
		fanout:        fanout,
		interval:      interval,
		log:           log,
	}
}

// Start launches the periodic sweep loop with an immediate first run.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.Sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Stop shuts the loop down and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Sweep notifies each overdue task's team leader once. Safe to call from
// anywhere; bootstrap may trigger it opportunistically.
func (s *Sweeper) Sweep(ctx context.Context) {
	overdue, err := s.tasks.GetOverdue(ctx, time.Now())
	if err != nil {
		s.log.WithError(err).Warn("overdue sweep: task query failed")
		return
	}

	notified := 0
	for i := range overdue {
		task := &overdue[i]
		leader, err := s.fanout.projectLeader(ctx, task.ProjectID)
		if err != nil {
			s.log.WithError(err).WithField("task_id", task.ID).
				Warn("overdue sweep: leader resolution failed")
			continue
		}
		if leader == nil {
			continue
		}

		n := &model.Notification{
			UserID: leader.ID,
			TaskID: task.ID,
			Text:   overdueMessage(task),
		}
		created, err := s.notifications.CreateIfAbsent(ctx, n)
		if err != nil {
			s.log.WithError(err).WithField("task_id", task.ID).
				Warn("overdue sweep: insert failed")
			continue
		}
		if created {
			s.fanout.pushLive(n)
			notified++
		}
	}

	if notified > 0 {
		s.log.WithField("count", notified).Info("overdue sweep: leaders notified")
	}
}
