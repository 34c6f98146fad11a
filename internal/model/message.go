package model

import "time"

// Message 私信，已读状态由接收者的 LastMessageReadTime 推导
type Message struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	SenderID    uint64    `gorm:"not null;index:idx_sender_id" json:"senderId"`
	RecipientID uint64    `gorm:"not null;index:idx_recipient_created,priority:1" json:"recipientId"`
	Body        string    `gorm:"type:varchar(140);not null" json:"body"`
	CreatedAt   time.Time `gorm:"index:idx_recipient_created,priority:2" json:"createdAt"`

	Sender    User `gorm:"foreignKey:SenderID;references:ID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
