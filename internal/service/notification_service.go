package service

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/metrics"
	"Microblog/internal/pkg/redis"
	"Microblog/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type NotificationService interface {
	WithSession(tx *gorm.DB) NotificationService
	AddNotification(ctx context.Context, userID uint64, name string, data any) (*model.Notification, error)
	GetNotifications(ctx context.Context, userID uint64, since float64) ([]*dto.NotificationDTO, error)
	PushNotification(ctx context.Context, notification *model.Notification)
}

type NotificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationService(db *gorm.DB) NotificationService {
	return &NotificationServiceImpl{notificationRepo: repository.NewNotificationRepo(db)}
}

// WithSession 绑定到调用方的事务
func (s *NotificationServiceImpl) WithSession(tx *gorm.DB) NotificationService {
	return NewNotificationService(tx)
}

// AddNotification 同一 (user, name) 只保留一条，重复添加覆盖 payload
func (s *NotificationServiceImpl) AddNotification(ctx context.Context, userID uint64, name string, data any) (*model.Notification, error) {
	if name == "" {
		return nil, ErrNotificationNameNull
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	notification := &model.Notification{
		UserID:    userID,
		Name:      name,
		Timestamp: NowTimestamp(),
		Payload:   payload,
	}
	if err = s.notificationRepo.UpsertNotification(ctx, notification); err != nil {
		return nil, err
	}

	// 覆盖写入时自增 ID 不可靠，重新读取
	stored, err := s.notificationRepo.GetNotification(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return notification, nil
	}
	return stored, nil
}

// GetNotifications 返回 timestamp 晚于 since 的通知
func (s *NotificationServiceImpl) GetNotifications(ctx context.Context, userID uint64, since float64) ([]*dto.NotificationDTO, error) {
	notifications, err := s.notificationRepo.GetNotificationsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		item, err := toNotificationDTO(n)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

// PushNotification 在事务提交后调用，通过 redis 频道推送给在线连接，失败只记录日志
func (s *NotificationServiceImpl) PushNotification(ctx context.Context, notification *model.Notification) {
	if notification == nil {
		return
	}
	metrics.IncNotification(notification.Name)
	if redis.GetRdbClient() == nil {
		return
	}
	item, err := toNotificationDTO(notification)
	if err != nil {
		log.WarnContext(ctx, "encode notification failed", "err", err)
		return
	}
	message, err := json.Marshal(item)
	if err != nil {
		log.WarnContext(ctx, "encode notification failed", "err", err)
		return
	}
	channel := NotificationChannel(notification.UserID)
	if err = redis.Publish(ctx, channel, string(message)); err != nil {
		log.WarnContext(ctx, "publish notification failed", "channel", channel, "err", err)
	}
}

// NotificationChannel 用户通知频道
func NotificationChannel(userID uint64) string {
	return consts.NotificationChannel + strconv.FormatUint(userID, 10)
}

// NowTimestamp 以秒为单位的浮点时间戳
func NowTimestamp() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

func toNotificationDTO(n *model.Notification) (*dto.NotificationDTO, error) {
	var data interface{}
	if len(n.Payload) > 0 {
		if err := n.GetData(&data); err != nil {
			return nil, err
		}
	}
	return &dto.NotificationDTO{
		Name:      n.Name,
		Data:      data,
		Timestamp: n.Timestamp,
	}, nil
}
