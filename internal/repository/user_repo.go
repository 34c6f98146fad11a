package repository

import (
	"Microblog/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id uint64, username string, aboutMe *string) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	UpdateLastMessageReadTime(ctx context.Context, id uint64, t time.Time) error
	UpdateLastSeen(ctx context.Context, id uint64, t time.Time) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if len(ids) == 0 {
		return users, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// GetUserByUsername 用户名区分大小写
func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *UserRepoImpl) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).Where(query, args...).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

// CreateUser 违反唯一约束时返回的错误交由调用方翻译
func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepoImpl) UpdateProfile(ctx context.Context, id uint64, username string, aboutMe *string) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"username": username,
			"about_me": aboutMe,
		}).Error
}

func (s *UserRepoImpl) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// UpdateLastMessageReadTime 推进私信已读水位
func (s *UserRepoImpl) UpdateLastMessageReadTime(ctx context.Context, id uint64, t time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_message_read_time", t.UTC()).Error
}

// UpdateLastSeen 只前进不后退
func (s *UserRepoImpl) UpdateLastSeen(ctx context.Context, id uint64, t time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND last_seen < ?", id, t.UTC()).
		Update("last_seen", t.UTC()).Error
}
