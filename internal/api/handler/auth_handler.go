package handler

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/api/middleware"
	"Microblog/internal/pkg/response"
	"Microblog/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userSvc service.UserService
}

func NewAuthHandler(userSvc service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

func (s *AuthHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if !bindJSON(c, &registerDTO) {
		return
	}
	user, err := s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "Congratulations, you are now a registered user!", user)
}

func (s *AuthHandler) Login(c *gin.Context) {
	var loginDTO dto.LoginDTO
	if !bindJSON(c, &loginDTO) {
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.TokenDTO{Token: token})
}

func (s *AuthHandler) Logout(c *gin.Context) {
	if err := s.userSvc.Logout(c.Request.Context(), c.GetString("token")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ResetPasswordRequest 不暴露邮箱是否存在，链接写入日志代替发信
func (s *AuthHandler) ResetPasswordRequest(c *gin.Context) {
	var req dto.ResetPasswordRequestDTO
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	token, err := s.userSvc.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	if token != "" {
		log.InfoContext(ctx, "password reset requested",
			"email", req.Email,
			"link", middleware.BaseURLFrom(ctx)+"/api/auth/reset_password/"+token)
	}
	response.SuccessMsg(c, "Check your email for the instructions to reset your password", nil)
}

func (s *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordDTO
	if !bindJSON(c, &req) {
		return
	}
	if err := s.userSvc.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "Your password has been reset.", nil)
}
