package security

import (
	"Microblog/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSecret      = "microblog"
	defaultIssuer      = "microblog"
	defaultExpiration  = time.Hour * 24
	defaultResetExpiry = time.Minute * 10
)

// UserClaims 登录令牌携带的用户信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// ResetPasswordClaims 重置密码令牌
type ResetPasswordClaims struct {
	ResetPassword uint64 `json:"reset_password"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	if config.Cfg != nil && config.Cfg.JWT.Secret != "" {
		return []byte(config.Cfg.JWT.Secret)
	}
	return []byte(defaultSecret)
}

func jwtIssuer() string {
	if config.Cfg != nil && config.Cfg.JWT.Issuer != "" {
		return config.Cfg.JWT.Issuer
	}
	return defaultIssuer
}

// TokenExpiration 登录令牌有效期
func TokenExpiration() time.Duration {
	if config.Cfg != nil && config.Cfg.JWT.ExpireHours > 0 {
		return time.Duration(config.Cfg.JWT.ExpireHours) * time.Hour
	}
	return defaultExpiration
}

func resetExpiration() time.Duration {
	if config.Cfg != nil && config.Cfg.JWT.ResetExpireMins > 0 {
		return time.Duration(config.Cfg.JWT.ResetExpireMins) * time.Minute
	}
	return defaultResetExpiry
}
