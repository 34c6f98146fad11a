package dto

import "time"

type MessageDTO struct {
	ID             uint64    `json:"id"`
	SenderID       uint64    `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	RecipientID    uint64    `json:"recipient_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type SendMessageDTO struct {
	Message string `json:"message" validate:"required,min=1,max=140"`
}

type NotificationDTO struct {
	Name      string      `json:"name"`
	Data      interface{} `json:"data"`
	Timestamp float64     `json:"timestamp"`
}
