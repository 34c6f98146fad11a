package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken 生成登录 Token
func GenerateToken(userID uint64) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiration())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}
	return tokenString, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	if err := parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateResetPasswordToken 生成重置密码令牌，默认 10 分钟过期
func GenerateResetPasswordToken(userID uint64) (string, error) {
	now := time.Now()
	claims := &ResetPasswordClaims{
		ResetPassword: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(resetExpiration())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}
	return tokenString, nil
}

// VerifyResetPasswordToken 校验重置密码令牌，返回用户 ID
func VerifyResetPasswordToken(tokenString string) (uint64, error) {
	claims := &ResetPasswordClaims{}
	if err := parse(tokenString, claims); err != nil {
		return 0, err
	}
	if claims.ResetPassword == 0 {
		return 0, errors.New("token 缺少 reset_password")
	}
	return claims.ResetPassword, nil
}

func parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return fmt.Errorf("token 解析失败: %w", err)
	}
	if !token.Valid {
		return errors.New("token 无效或已过期")
	}
	return nil
}

// ExtractSignature 从 Token 字符串中提取签名
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return "", errors.New("token 格式不正确")
	}
	return parts[2], nil
}
