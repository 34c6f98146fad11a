package middleware

import (
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/redis"
	"Microblog/internal/pkg/response"
	"Microblog/internal/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}
		authenticate(c, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

// WsAuthMiddleware 浏览器建立 websocket 时无法带 Header，从 query 中取 token
func WsAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}
		authenticate(c, token)
	}
}

func authenticate(c *gin.Context, tokenString string) {
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
		c.Abort()
		return
	}

	value, err := redis.GetValue(c.Request.Context(), consts.TokenBlacklistKey+signature)
	if err != nil {
		response.Fail(c, response.InternalServerError, "未知错误")
		c.Abort()
		return
	}
	if value != "" {
		response.Fail(c, response.Unauthorized, "Token 无效或已过期")
		c.Abort()
		return
	}

	claims, err := security.ValidateToken(tokenString)
	if err != nil {
		response.Fail(c, response.Unauthorized, "Token 无效或已过期")
		c.Abort()
		return
	}

	c.Set("user_id", claims.UserID)
	c.Set("token", tokenString)
	c.Next()
}
