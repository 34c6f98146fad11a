package dto

import "time"

type UserDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	AboutMe   *string   `json:"about_me,omitempty"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
}

// EditProfileDTO about_me 最长 140 个字符
type EditProfileDTO struct {
	Username string  `json:"username" validate:"required,min=1,max=64"`
	AboutMe  *string `json:"about_me" validate:"omitempty,max=140"`
}

// UserProfileDTO 用户主页
type UserProfileDTO struct {
	User           *UserDTO    `json:"user"`
	PostsCount     int64       `json:"posts_count"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowing    bool        `json:"is_following"`
	IsSelf         bool        `json:"is_self"`
	Posts          *PageResult `json:"posts"`
}
