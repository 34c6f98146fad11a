package repository

import (
	"Microblog/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, message *model.Message) error
	CountUnread(ctx context.Context, recipientID uint64, since *time.Time) (int64, error)
	GetMessagesByRecipient(ctx context.Context, recipientID uint64, limit, offset int) ([]*model.Message, error)
}

type MessageRepoImpl struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &MessageRepoImpl{db: db}
}

func (s *MessageRepoImpl) CreateMessage(ctx context.Context, message *model.Message) error {
	if !message.CreatedAt.IsZero() {
		message.CreatedAt = message.CreatedAt.UTC()
	}
	return s.db.WithContext(ctx).Omit("Sender", "Recipient").Create(message).Error
}

// CountUnread since 为空时统计全部私信，否则只统计严格晚于 since 的
func (s *MessageRepoImpl) CountUnread(ctx context.Context, recipientID uint64, since *time.Time) (int64, error) {
	var count int64
	db := s.db.WithContext(ctx).Model(&model.Message{}).Where("recipient_id = ?", recipientID)
	if since != nil {
		db = db.Where("created_at > ?", since.UTC())
	}
	err := db.Count(&count).Error
	return count, err
}

// GetMessagesByRecipient 收件箱，最新在前
func (s *MessageRepoImpl) GetMessagesByRecipient(ctx context.Context, recipientID uint64, limit, offset int) ([]*model.Message, error) {
	messages := make([]*model.Message, 0)
	err := paginate(s.db.WithContext(ctx).Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC"), limit, offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
