package middleware

import (
	"Microblog/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// LastSeenMiddleware 已登录请求刷新 last_seen，由定时任务批量落库
func LastSeenMiddleware(userSvc service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetUint64("user_id"); uid != 0 {
			if err := userSvc.TouchLastSeen(c.Request.Context(), uid); err != nil {
				log.WarnContext(c.Request.Context(), "touch last seen failed", "uid", uid, "err", err)
			}
		}
		c.Next()
	}
}
