package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

// NotificationRepository stores fanout output. Rows are never deleted;
// there is no retention policy, which is an operational concern for
// long-lived deployments.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateIfAbsent inserts the notification unless an identical unread one
// is already pending for the same user and task. Keeps periodic sweeps
// idempotent.
func (r *NotificationRepository) CreateIfAbsent(ctx context.Context, n *model.Notification) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Notification
		err := tx.Where("user_id = ? AND task_id = ? AND text = ? AND read = false",
			n.UserID, n.TaskID, n.Text).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		created = true
		return tx.Create(n).Error
	})
	return created, err
}

// GetByUserID retrieves a user's notifications, newest first
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead flips the read flag of one of the user's notifications. The
// user scope stops one user marking another's notifications read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
