package middleware

import (
	"Microblog/internal/pkg/consts"
	"context"
	"net/url"

	"github.com/gin-gonic/gin"
)

// BaseURLMiddleware 记录站点根地址，优先取 Referer
func BaseURLMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), consts.BaseURL, requestBaseURL(c))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestBaseURL(c *gin.Context) string {
	if referer := c.GetHeader("Referer"); referer != "" {
		if u, err := url.Parse(referer); err == nil && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// BaseURLFrom 取不到时返回空串
func BaseURLFrom(ctx context.Context) string {
	baseURL, _ := ctx.Value(consts.BaseURL).(string)
	return baseURL
}
