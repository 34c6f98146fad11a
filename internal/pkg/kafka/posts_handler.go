package kafka

import (
	"Microblog/internal/pkg/es"
	"Microblog/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// PostsHandler 消费 posts 表的变更，同步到搜索索引
type PostsHandler struct {
	userDBRepo repository.UserRepo
	postESRepo es.PostRepo
}

func NewPostsHandler(userDBRepo repository.UserRepo, postESRepo es.PostRepo) *PostsHandler {
	return &PostsHandler{
		userDBRepo: userDBRepo,
		postESRepo: postESRepo,
	}
}

func (s *PostsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer setup")
	return nil
}

func (s *PostsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer cleanup")
	return nil
}

func (s *PostsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.logic)
}

func (s *PostsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "posts")
	if err != nil {
		return err
	}

	if canalMsg.Type == DELETE {
		for _, row := range canalMsg.Data {
			if err = s.postESRepo.DeletePost(ctx, StrToUint64(row["id"])); err != nil {
				return err
			}
		}
		return nil
	}

	posts := make([]*es.PostES, 0, len(canalMsg.Data))
	userIDs := make([]uint64, 0, len(canalMsg.Data))
	for _, row := range canalMsg.Data {
		post := toPostES(row)
		posts = append(posts, post)
		userIDs = append(userIDs, post.UserID)
	}

	// 一批帖子的作者一次查出
	users, err := s.userDBRepo.GetUserByIds(ctx, userIDs)
	if err != nil {
		return err
	}
	usernames := make(map[uint64]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	for _, post := range posts {
		post.Username = usernames[post.UserID]
		if err = s.postESRepo.IndexPost(ctx, post); err != nil {
			return err
		}
	}
	return nil
}

func toPostES(row map[string]interface{}) *es.PostES {
	return &es.PostES{
		ID:        StrToUint64(row["id"]),
		UserID:    StrToUint64(row["user_id"]),
		Body:      StrToString(row["body"]),
		CreatedAt: StrToDateTime(row["created_at"]),
	}
}
