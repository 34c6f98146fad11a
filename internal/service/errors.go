package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	TooManyRequests     = 429
	ServiceUnavailable  = 503
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserUsernameExist    = errors.New("Please use a different username.")
	ErrUserEmailExist       = errors.New("Please use a different email address.")
	ErrPasswordMismatch     = errors.New("两次输入的密码不一致")
	ErrInvalidCredentials   = errors.New("Invalid username or password")
	ErrUserFollowSelf       = errors.New("You cannot follow yourself!")
	ErrUserUnfollowSelf     = errors.New("You cannot unfollow yourself!")
	ErrTokenInvalid         = errors.New("token 无效或已过期")
	ErrTooManyRequests      = errors.New("请求过于频繁，请稍后重试")
	ErrSearchDisabled       = errors.New("搜索服务未开启")
	ErrPostBodyInvalid      = errors.New("帖子内容长度需在 1 到 140 之间")
	ErrMessageBodyInvalid   = errors.New("私信内容长度需在 1 到 140 之间")
	ErrNotificationNameNull = errors.New("通知名不能为空")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserUsernameExist:    BadRequest,
	ErrUserEmailExist:       BadRequest,
	ErrPasswordMismatch:     BadRequest,
	ErrInvalidCredentials:   Unauthorized,
	ErrUserFollowSelf:       BadRequest,
	ErrUserUnfollowSelf:     BadRequest,
	ErrTokenInvalid:         Unauthorized,
	ErrTooManyRequests:      TooManyRequests,
	ErrSearchDisabled:       ServiceUnavailable,
	ErrPostBodyInvalid:      BadRequest,
	ErrMessageBodyInvalid:   BadRequest,
	ErrNotificationNameNull: BadRequest,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
