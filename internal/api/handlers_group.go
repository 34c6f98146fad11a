package api

import (
	"Microblog/internal/api/handler"
	"Microblog/internal/service"
	"time"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	UserFollowHandler   *handler.UserFollowHandler
	PostHandler         *handler.PostHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	WSHandler           *handler.WsHandler

	// 中间件依赖
	UserService service.UserService
}

// RouterOptions 路由层可调参数
type RouterOptions struct {
	LoginLimit     int
	LoginWindow    time.Duration
	MetricsEnabled bool
	CorsOrigins    []string
}
