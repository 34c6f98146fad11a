package middleware

import (
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/redis"
	"Microblog/internal/pkg/response"
	"Microblog/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 按客户端 IP 的固定窗口限流，redis 不可用时放行
func RateLimitMiddleware(prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		count, err := redis.IncrWindow(ctx, prefix+c.ClientIP(), window)
		if err != nil {
			log.WarnContext(ctx, "rate limit check failed", "err", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			response.Error(c, service.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRateLimit 登录接口限流
func LoginRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimitMiddleware(consts.LoginRateLimitKey, limit, window)
}
