package dto

import "time"

type PostDTO struct {
	ID        uint64    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

type CreatePostDTO struct {
	Body string `json:"post" validate:"required,min=1,max=140"`
}

type SearchDTO struct {
	Query string `form:"q" validate:"required,max=100"`
	PageDTO
}
