package handler

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/pkg/response"
	"Microblog/internal/service"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	userSvc    service.UserService
	messageSvc service.MessageService
}

func NewMessageHandler(userSvc service.UserService, messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{
		userSvc:    userSvc,
		messageSvc: messageSvc,
	}
}

// SendMessage 发送私信，同时刷新接收者的未读数通知
func (s *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageDTO
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	username := c.Param("recipient")
	recipient, err := s.userSvc.GetUserByUsername(ctx, username)
	if errors.Is(err, service.ErrUserNotFound) {
		response.Fail(c, response.NotFound, fmt.Sprintf("User %s not found.", username))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	msg, err := s.messageSvc.SendMessage(ctx, c.GetUint64("user_id"), recipient.ID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "Your message has been sent.", msg)
}

// GetMessages 查看收件箱，会把未读数清零
func (s *MessageHandler) GetMessages(c *gin.Context) {
	page, pageSize := getPagination(c)
	messages, err := s.messageSvc.GetInbox(c.Request.Context(), c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

func (s *MessageHandler) GetUnreadCount(c *gin.Context) {
	count, err := s.messageSvc.GetUnreadCount(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}
