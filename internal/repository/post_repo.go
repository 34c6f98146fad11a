package repository

import (
	"Microblog/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostCount(ctx context.Context, userID uint64) (int64, error)
	GetPostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	GetFollowingPosts(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	GetLatestPosts(ctx context.Context, limit, offset int) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// CreatePost CreatedAt 为零值时使用当前时间
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	if !post.CreatedAt.IsZero() {
		post.CreatedAt = post.CreatedAt.UTC()
	}
	return s.db.WithContext(ctx).Omit("User").Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("User").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostCount 作者发帖数
func (s *PostRepoImpl) GetPostCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) GetPostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := paginate(s.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC"), limit, offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetFollowingPosts 自己的帖子并上所关注用户的帖子，时间倒序，同一时间按 id 倒序
func (s *PostRepoImpl) GetFollowingPosts(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	db := s.db.WithContext(ctx)
	following := db.Model(&model.UserFollow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	posts := make([]*model.Post, 0)
	err := paginate(db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, following).
		Order("created_at DESC, id DESC"), limit, offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetLatestPosts 全站最新帖子
func (s *PostRepoImpl) GetLatestPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := paginate(s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC, id DESC"), limit, offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
