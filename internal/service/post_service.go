package service

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/es"
	"Microblog/internal/pkg/metrics"
	"Microblog/internal/pkg/util"
	"Microblog/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type PostService interface {
	WithSession(tx *gorm.DB) PostService
	CreatePost(ctx context.Context, userID uint64, body string, createdAt time.Time) (*dto.PostDTO, error)
	GetPostCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error)
	GetExplorePosts(ctx context.Context, page, pageSize int) (*dto.PageResult, error)
	GetUserPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error)
	SearchPosts(ctx context.Context, query string, page, pageSize int) (*dto.PageResult, error)
}

type postServiceImpl struct {
	postDBRepo repository.PostRepo
	postESRepo es.PostRepo
}

// NewPostService postESRepo 为 nil 时搜索关闭
func NewPostService(db *gorm.DB, postESRepo es.PostRepo) PostService {
	return &postServiceImpl{
		postDBRepo: repository.NewPostRepository(db),
		postESRepo: postESRepo,
	}
}

func (s *postServiceImpl) WithSession(tx *gorm.DB) PostService {
	return NewPostService(tx, s.postESRepo)
}

// CreatePost createdAt 为零值时使用当前时间
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, body string, createdAt time.Time) (*dto.PostDTO, error) {
	body, ok := util.ValidBody(body, consts.MaxPostLength)
	if !ok {
		return nil, ErrPostBodyInvalid
	}

	post := &model.Post{
		UserID:    userID,
		Body:      body,
		CreatedAt: createdAt,
	}
	if err := s.postDBRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	metrics.PostsCreated.Inc()

	created, err := s.postDBRepo.GetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = post
	}

	// 配置了 kafka 时由 canal 消费者负责索引，这里保证未开启 kafka 时同样可搜索
	if s.postESRepo != nil {
		if err = s.postESRepo.IndexPost(ctx, es.NewPostES(created, "")); err != nil {
			log.WarnContext(ctx, "index post failed", "post_id", created.ID, "err", err)
		}
	}

	return toPostDTO(created)
}

func (s *postServiceImpl) GetPostCount(ctx context.Context, userID uint64) (int64, error) {
	return s.postDBRepo.GetPostCount(ctx, userID)
}

// GetFollowingPosts 首页时间线
func (s *postServiceImpl) GetFollowingPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error) {
	metrics.FeedQueries.Inc()
	return s.pageOf(page, pageSize, func(limit, offset int) ([]*model.Post, error) {
		return s.postDBRepo.GetFollowingPosts(ctx, userID, limit, offset)
	})
}

func (s *postServiceImpl) GetExplorePosts(ctx context.Context, page, pageSize int) (*dto.PageResult, error) {
	return s.pageOf(page, pageSize, func(limit, offset int) ([]*model.Post, error) {
		return s.postDBRepo.GetLatestPosts(ctx, limit, offset)
	})
}

func (s *postServiceImpl) GetUserPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error) {
	return s.pageOf(page, pageSize, func(limit, offset int) ([]*model.Post, error) {
		return s.postDBRepo.GetPostsByUser(ctx, userID, limit, offset)
	})
}

// SearchPosts 依赖 Elasticsearch
func (s *postServiceImpl) SearchPosts(ctx context.Context, query string, page, pageSize int) (*dto.PageResult, error) {
	if s.postESRepo == nil {
		return nil, ErrSearchDisabled
	}
	limit, offset := util.PageToLimitOffset(page, pageSize)
	hits, total, err := s.postESRepo.SearchPosts(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PostDTO, 0, len(hits))
	for _, hit := range hits {
		items = append(items, &dto.PostDTO{
			ID:        hit.ID,
			Body:      hit.Body,
			CreatedAt: hit.CreatedAt,
			UserID:    hit.UserID,
			Username:  hit.Username,
		})
	}
	if page < 1 {
		page = 1
	}
	return &dto.PageResult{
		Items:   items,
		Page:    page,
		HasNext: int64(offset+limit) < total,
		HasPrev: page > 1,
	}, nil
}

// pageOf 多取一条用于判断是否有下一页
func (s *postServiceImpl) pageOf(page, pageSize int, fetch func(limit, offset int) ([]*model.Post, error)) (*dto.PageResult, error) {
	limit, offset := util.PageToLimitOffset(page, pageSize)
	posts, err := fetch(limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasNext := len(posts) > limit
	if hasNext {
		posts = posts[:limit]
	}
	items, err := toPostDTOs(posts)
	if err != nil {
		return nil, err
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

func toPostDTO(post *model.Post) (*dto.PostDTO, error) {
	postDTO := &dto.PostDTO{}
	if err := copier.Copy(postDTO, post); err != nil {
		return nil, err
	}
	postDTO.Username = post.User.Username
	return postDTO, nil
}

func toPostDTOs(posts []*model.Post) ([]*dto.PostDTO, error) {
	items := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		item, err := toPostDTO(post)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
