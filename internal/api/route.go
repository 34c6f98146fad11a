package api

import (
	"Microblog/internal/api/middleware"
	"Microblog/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.CorsOrigins...))
	logger.SetupGin(r)

	if opts.MetricsEnabled {
		r.Use(middleware.MetricsMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", middleware.LoginRateLimit(opts.LoginLimit, opts.LoginWindow), group.AuthHandler.Login)
			authGroup.POST("/reset_password_request", middleware.BaseURLMiddleware(), group.AuthHandler.ResetPasswordRequest)
			authGroup.POST("/reset_password/:token", group.AuthHandler.ResetPassword)
			authGroup.POST("/logout", middleware.AuthMiddleware(), group.AuthHandler.Logout)
		}

		apiGroup.GET("/notifications/ws", middleware.WsAuthMiddleware(), group.WSHandler.Connect)

		// 需要登录的接口，每次请求刷新 last_seen
		loginGroup := apiGroup.Group("")
		loginGroup.Use(middleware.AuthMiddleware(), middleware.LastSeenMiddleware(group.UserService))
		{
			loginGroup.GET("/index", group.PostHandler.GetFeed)
			loginGroup.POST("/index", group.PostHandler.CreatePost)
			loginGroup.GET("/explore", group.PostHandler.Explore)
			loginGroup.GET("/search", group.PostHandler.SearchPost)

			loginGroup.GET("/me", group.UserHandler.GetUserInfo)
			loginGroup.GET("/user/:username", group.UserHandler.GetProfile)
			loginGroup.PUT("/edit_profile", group.UserHandler.EditProfile)

			loginGroup.POST("/follow/:username", group.UserFollowHandler.Follow)
			loginGroup.POST("/unfollow/:username", group.UserFollowHandler.Unfollow)
			loginGroup.GET("/user/:username/followers", group.UserFollowHandler.GetUserFollowers)
			loginGroup.GET("/user/:username/following", group.UserFollowHandler.GetUserFollowings)

			loginGroup.POST("/send_message/:recipient", group.MessageHandler.SendMessage)
			loginGroup.GET("/messages", group.MessageHandler.GetMessages)
			loginGroup.GET("/messages/unread", group.MessageHandler.GetUnreadCount)

			loginGroup.GET("/notifications", group.NotificationHandler.GetNotifications)
		}
	}

	return r
}
