package handler

import (
	"Microblog/internal/pkg/response"
	"Microblog/internal/pkg/util"
	"Microblog/internal/service"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userSvc       service.UserService
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userSvc service.UserService, userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{
		userSvc:       userSvc,
		userFollowSvc: userFollowSvc,
	}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	targetID, ok := s.lookup(c, username)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	if targetID == userID {
		response.Error(c, service.ErrUserFollowSelf)
		return
	}
	if err := s.userFollowSvc.Follow(c.Request.Context(), userID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, fmt.Sprintf("You are following %s!", username), nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	targetID, ok := s.lookup(c, username)
	if !ok {
		return
	}
	userID := c.GetUint64("user_id")
	if targetID == userID {
		response.Error(c, service.ErrUserUnfollowSelf)
		return
	}
	if err := s.userFollowSvc.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, fmt.Sprintf("You are not following %s.", username), nil)
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	targetID, ok := s.lookup(c, c.Param("username"))
	if !ok {
		return
	}
	limit, offset := util.PageToLimitOffset(getPagination(c))
	followers, err := s.userFollowSvc.GetFollowers(c.Request.Context(), targetID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	targetID, ok := s.lookup(c, c.Param("username"))
	if !ok {
		return
	}
	limit, offset := util.PageToLimitOffset(getPagination(c))
	followings, err := s.userFollowSvc.GetFollowing(c.Request.Context(), targetID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followings)
}

func (s *UserFollowHandler) lookup(c *gin.Context, username string) (uint64, bool) {
	user, err := s.userSvc.GetUserByUsername(c.Request.Context(), username)
	if errors.Is(err, service.ErrUserNotFound) {
		response.Fail(c, response.NotFound, fmt.Sprintf("User %s not found.", username))
		return 0, false
	}
	if err != nil {
		response.Error(c, err)
		return 0, false
	}
	return user.ID, true
}
