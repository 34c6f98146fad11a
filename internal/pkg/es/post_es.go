package es

import (
	"Microblog/internal/model"
	"time"
)

// PostES 帖子索引文档
type PostES struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPostES username 为空时由调用方补齐
func NewPostES(post *model.Post, username string) *PostES {
	if username == "" {
		username = post.User.Username
	}
	return &PostES{
		ID:        post.ID,
		UserID:    post.UserID,
		Username:  username,
		Body:      post.Body,
		CreatedAt: post.CreatedAt,
	}
}
