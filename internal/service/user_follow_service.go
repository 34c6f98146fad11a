package service

import (
	"Microblog/internal/model"
	"Microblog/internal/pkg/metrics"
	"Microblog/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UserFollowService 关注关系，计数全部实时查询
type UserFollowService interface {
	WithSession(tx *gorm.DB) UserFollowService
	Follow(ctx context.Context, followerID, followedID uint64) error
	Unfollow(ctx context.Context, followerID, followedID uint64) error
	IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
}

func NewUserFollowService(db *gorm.DB) UserFollowService {
	return &UserFollowServiceImpl{userFollowRepo: repository.NewUserFollowRepo(db)}
}

func (s *UserFollowServiceImpl) WithSession(tx *gorm.DB) UserFollowService {
	return NewUserFollowService(tx)
}

// Follow 已关注时为空操作
func (s *UserFollowServiceImpl) Follow(ctx context.Context, followerID, followedID uint64) error {
	err := s.userFollowRepo.CreateUserFollow(ctx, &model.UserFollow{
		FollowerID: followerID,
		FollowedID: followedID,
	})
	if err != nil {
		return err
	}
	metrics.IncFollow("follow")
	return nil
}

// Unfollow 未关注时为空操作
func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, followerID, followedID uint64) error {
	err := s.userFollowRepo.DeleteUserFollow(ctx, &model.UserFollow{
		FollowerID: followerID,
		FollowedID: followedID,
	})
	if err != nil {
		return err
	}
	metrics.IncFollow("unfollow")
	return nil
}

func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error) {
	return s.userFollowRepo.ExistsUserFollow(ctx, followerID, followedID)
}

func (s *UserFollowServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.userFollowRepo.GetUserFollowingCount(ctx, userID)
}

func (s *UserFollowServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.userFollowRepo.GetUserFollowerCount(ctx, userID)
}

func (s *UserFollowServiceImpl) GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return s.userFollowRepo.GetUserFollowers(ctx, userID, limit, offset)
}

func (s *UserFollowServiceImpl) GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	return s.userFollowRepo.GetUserFollowing(ctx, userID, limit, offset)
}
