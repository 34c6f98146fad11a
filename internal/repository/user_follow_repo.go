package repository

import (
	"Microblog/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFollowRepo 关注关系，计数均为实时查询
type UserFollowRepo interface {
	GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	ExistsUserFollow(ctx context.Context, followerID uint64, followedID uint64) (bool, error)
	CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error
	DeleteUserFollow(ctx context.Context, userFollow *model.UserFollow) error
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// GetUserFollowers 关注了 userID 的边
func (s *UserFollowRepoImpl) GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return s.list(ctx, "followed_id", userID, "follower_id", limit, offset)
}

// GetUserFollowing userID 关注的边
func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return s.list(ctx, "follower_id", userID, "followed_id", limit, offset)
}

func (s *UserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.count(ctx, "followed_id = ?", userID)
}

func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.count(ctx, "follower_id = ?", userID)
}

func (s *UserFollowRepoImpl) ExistsUserFollow(ctx context.Context, followerID uint64, followedID uint64) (bool, error) {
	n, err := s.count(ctx, "follower_id = ? AND followed_id = ?", followerID, followedID)
	return n > 0, err
}

// CreateUserFollow 边已存在时不做任何事
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, userFollow *model.UserFollow) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(userFollow).Error
}

// DeleteUserFollow 边不存在时同样返回 nil
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, userFollow *model.UserFollow) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", userFollow.FollowerID, userFollow.FollowedID).
		Delete(&model.UserFollow{}).Error
}

func (s *UserFollowRepoImpl) list(ctx context.Context, column string, userID uint64, tieBreak string, limit, offset int) ([]*model.UserFollow, error) {
	userFollows := make([]*model.UserFollow, 0)
	query := s.db.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("created_at DESC, " + tieBreak + " DESC")
	if err := paginate(query, limit, offset).Find(&userFollows).Error; err != nil {
		return nil, err
	}
	return userFollows, nil
}

func (s *UserFollowRepoImpl) count(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where(where, args...).
		Count(&count).Error
	return count, err
}
