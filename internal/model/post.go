package model

import (
	"time"
)

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	Body      string    `gorm:"type:varchar(140);not null" json:"body"`
	CreatedAt time.Time `gorm:"index:idx_created_at" json:"createdAt"` // 为零值时由 gorm 填充当前时间

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}
