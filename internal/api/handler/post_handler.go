package handler

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/pkg/response"
	"Microblog/internal/pkg/util"
	"Microblog/internal/service"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// GetFeed 首页：自己和已关注用户的帖子
func (s *PostHandler) GetFeed(c *gin.Context) {
	page, pageSize := getPagination(c)
	posts, err := s.postSvc.GetFollowingPosts(c.Request.Context(), c.GetUint64("user_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostDTO
	if !bindJSON(c, &req) {
		return
	}
	post, err := s.postSvc.CreatePost(c.Request.Context(), c.GetUint64("user_id"), req.Body, time.Time{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "Your post is now live!", post)
}

func (s *PostHandler) Explore(c *gin.Context) {
	page, pageSize := getPagination(c)
	posts, err := s.postSvc.GetExplorePosts(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) SearchPost(c *gin.Context) {
	var searchDTO dto.SearchDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, fmt.Errorf("%w: %v", service.ErrParamInvalid, err))
		return
	}
	if err := util.ValidateDTO(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.SearchPosts(c.Request.Context(), searchDTO.Query, searchDTO.Page, searchDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
