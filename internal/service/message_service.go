package service

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/metrics"
	"Microblog/internal/pkg/util"
	"Microblog/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type MessageService interface {
	SendMessage(ctx context.Context, senderID, recipientID uint64, body string) (*dto.MessageDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	GetInbox(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error)
	RefreshUnreadNotification(ctx context.Context, userID uint64) (*model.Notification, error)
}

type MessageServiceImpl struct {
	db              *gorm.DB
	messageRepo     repository.MessageRepo
	userRepo        repository.UserRepo
	notificationSvc NotificationService
}

func NewMessageService(db *gorm.DB, notificationSvc NotificationService) MessageService {
	return &MessageServiceImpl{
		db:              db,
		messageRepo:     repository.NewMessageRepo(db),
		userRepo:        repository.NewUserRepo(db),
		notificationSvc: notificationSvc,
	}
}

// SendMessage 写入私信并在同一事务内刷新接收者的未读数通知
func (s *MessageServiceImpl) SendMessage(ctx context.Context, senderID, recipientID uint64, body string) (*dto.MessageDTO, error) {
	body, ok := util.ValidBody(body, consts.MaxMessageLength)
	if !ok {
		return nil, ErrMessageBodyInvalid
	}

	message := &model.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	var notification *model.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipient, err := repository.NewUserRepo(tx).GetUserById(ctx, recipientID)
		if err != nil {
			return err
		}
		if recipient == nil {
			return ErrUserNotFound
		}
		if err = repository.NewMessageRepo(tx).CreateMessage(ctx, message); err != nil {
			return err
		}
		notification, err = s.refreshUnread(ctx, tx, recipient)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()
	s.notificationSvc.PushNotification(ctx, notification)

	messageDTO := &dto.MessageDTO{}
	if err = copier.Copy(messageDTO, message); err != nil {
		return nil, err
	}
	return messageDTO, nil
}

// GetUnreadCount 晚于已读水位的私信数
func (s *MessageServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return s.messageRepo.CountUnread(ctx, userID, user.LastMessageReadTime)
}

// GetInbox 查看收件箱会把已读水位推进到当前时间，并把未读通知清零
func (s *MessageServiceImpl) GetInbox(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error) {
	var notification *model.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepo(tx).UpdateLastMessageReadTime(ctx, userID, time.Now()); err != nil {
			return err
		}
		var err error
		notification, err = s.notificationSvc.WithSession(tx).
			AddNotification(ctx, userID, consts.NotificationUnreadMessageCount, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notificationSvc.PushNotification(ctx, notification)

	limit, offset := util.PageToLimitOffset(page, pageSize)
	messages, err := s.messageRepo.GetMessagesByRecipient(ctx, userID, limit+1, offset)
	if err != nil {
		return nil, err
	}
	hasNext := len(messages) > limit
	if hasNext {
		messages = messages[:limit]
	}

	items := make([]*dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		item := &dto.MessageDTO{}
		if err = copier.Copy(item, m); err != nil {
			return nil, err
		}
		item.SenderUsername = m.Sender.Username
		items = append(items, item)
	}
	if page < 1 {
		page = 1
	}
	return &dto.PageResult{
		Items:   items,
		Page:    page,
		HasNext: hasNext,
		HasPrev: page > 1,
	}, nil
}

// RefreshUnreadNotification 重新统计未读数并写入通知，供异步消费者使用
func (s *MessageServiceImpl) RefreshUnreadNotification(ctx context.Context, userID uint64) (*model.Notification, error) {
	var notification *model.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := repository.NewUserRepo(tx).GetUserById(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		notification, err = s.refreshUnread(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notificationSvc.PushNotification(ctx, notification)
	return notification, nil
}

func (s *MessageServiceImpl) refreshUnread(ctx context.Context, tx *gorm.DB, user *model.User) (*model.Notification, error) {
	count, err := repository.NewMessageRepo(tx).CountUnread(ctx, user.ID, user.LastMessageReadTime)
	if err != nil {
		return nil, err
	}
	return s.notificationSvc.WithSession(tx).
		AddNotification(ctx, user.ID, consts.NotificationUnreadMessageCount, count)
}
