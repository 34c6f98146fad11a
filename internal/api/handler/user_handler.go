package handler

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/pkg/response"
	"Microblog/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc       service.UserService
	userFollowSvc service.UserFollowService
	postSvc       service.PostService
}

func NewUserHandler(userSvc service.UserService, userFollowSvc service.UserFollowService, postSvc service.PostService) *UserHandler {
	return &UserHandler{
		userSvc:       userSvc,
		userFollowSvc: userFollowSvc,
		postSvc:       postSvc,
	}
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	user, err := s.userSvc.GetUserInfo(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// GetProfile 用户主页：基本信息、计数、是否已关注和分页帖子
func (s *UserHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	currentID := c.GetUint64("user_id")

	target, err := s.userSvc.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.GetUserInfo(ctx, target.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile := &dto.UserProfileDTO{
		User:   user,
		IsSelf: target.ID == currentID,
	}
	if profile.PostsCount, err = s.postSvc.GetPostCount(ctx, target.ID); err != nil {
		response.Error(c, err)
		return
	}
	if profile.FollowersCount, err = s.userFollowSvc.GetFollowerCount(ctx, target.ID); err != nil {
		response.Error(c, err)
		return
	}
	if profile.FollowingCount, err = s.userFollowSvc.GetFollowingCount(ctx, target.ID); err != nil {
		response.Error(c, err)
		return
	}
	if !profile.IsSelf {
		if profile.IsFollowing, err = s.userFollowSvc.IsFollowing(ctx, currentID, target.ID); err != nil {
			response.Error(c, err)
			return
		}
	}

	page, pageSize := getPagination(c)
	if profile.Posts, err = s.postSvc.GetUserPosts(ctx, target.ID, page, pageSize); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *UserHandler) EditProfile(c *gin.Context) {
	var req dto.EditProfileDTO
	if !bindJSON(c, &req) {
		return
	}
	user, err := s.userSvc.EditProfile(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "Your changes have been saved.", user)
}
