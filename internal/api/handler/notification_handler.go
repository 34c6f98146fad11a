package handler

import (
	"Microblog/internal/pkg/response"
	"Microblog/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationSvc: notificationSvc,
	}
}

// GetNotifications 轮询 since 之后的通知，按时间升序
func (s *NotificationHandler) GetNotifications(c *gin.Context) {
	since, err := strconv.ParseFloat(c.DefaultQuery("since", "0"), 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	list, err := s.notificationSvc.GetNotifications(c.Request.Context(), c.GetUint64("user_id"), since)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
