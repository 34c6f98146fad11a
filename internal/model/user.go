package model

import (
	"time"
)

type User struct {
	ID                  uint64     `gorm:"primaryKey" json:"id"`
	Username            string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_username" json:"username"`
	Email               string     `gorm:"type:varchar(120);not null;uniqueIndex:idx_email" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255)" json:"-"`
	AboutMe             *string    `gorm:"type:varchar(140)" json:"aboutMe"`
	LastSeen            time.Time  `json:"lastSeen"`
	LastMessageReadTime *time.Time `json:"lastMessageReadTime"` // 为空表示从未读过私信
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
