package util

import (
	"Microblog/internal/pkg/consts"
	"strings"
	"unicode/utf8"
)

// PageToLimitOffset page 从 1 开始，非法值回落到默认，过大的 page 截断到 MaxPage
func PageToLimitOffset(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if page > consts.MaxPage {
		page = consts.MaxPage
	}
	if pageSize <= 0 {
		pageSize = consts.DefaultPageSize
	}
	if pageSize > consts.MaxPageSize {
		pageSize = consts.MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// ValidBody 去掉首尾空白后按字符数判断长度
func ValidBody(body string, max int) (string, bool) {
	body = strings.TrimSpace(body)
	n := utf8.RuneCountInString(body)
	return body, n >= 1 && n <= max
}
