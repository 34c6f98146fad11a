package dto

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 分页参数，page 从 1 开始
type PageDTO struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// PageResult 分页结果
type PageResult struct {
	Items   interface{} `json:"items"`
	Page    int         `json:"page"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}
