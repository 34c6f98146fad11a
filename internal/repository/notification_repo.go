package repository

import (
	"Microblog/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepo interface {
	UpsertNotification(ctx context.Context, notification *model.Notification) error
	GetNotification(ctx context.Context, userID uint64, name string) (*model.Notification, error)
	GetNotificationsSince(ctx context.Context, userID uint64, since float64) ([]*model.Notification, error)
}

type NotificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &NotificationRepoImpl{db: db}
}

// UpsertNotification (user_id, name) 已存在时覆盖 payload 与 timestamp
func (s *NotificationRepoImpl) UpsertNotification(ctx context.Context, notification *model.Notification) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "timestamp"}),
		}).
		Create(notification).Error
}

func (s *NotificationRepoImpl) GetNotification(ctx context.Context, userID uint64, name string) (*model.Notification, error) {
	var notification model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// GetNotificationsSince timestamp 严格大于 since，按时间正序
func (s *NotificationRepoImpl) GetNotificationsSince(ctx context.Context, userID uint64, since float64) ([]*model.Notification, error) {
	notifications := make([]*model.Notification, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp > ?", userID, since).
		Order("timestamp ASC, id ASC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
