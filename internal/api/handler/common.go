package handler

import (
	"Microblog/internal/pkg/response"
	"Microblog/internal/pkg/util"
	"Microblog/internal/service"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bindJSON 绑定并校验请求体，失败时已写回响应
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, fmt.Errorf("%w: %v", service.ErrParamInvalid, err))
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

// getPagination page 从 1 开始，非法值由 service 层回落到默认
func getPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	return page, pageSize
}
