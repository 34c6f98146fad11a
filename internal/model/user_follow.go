package model

import "time"

// UserFollow 关注边，follower 关注 followed
type UserFollow struct {
	FollowerID uint64    `gorm:"primaryKey;autoIncrement:false" json:"followerId"`
	FollowedID uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_followed_id" json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`

	Follower User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserFollow) TableName() string {
	return "follows"
}
