package util

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateDTO 返回原始 validator.ValidationErrors，交由 response 统一处理
func ValidateDTO(dto any) error {
	return validate.Struct(dto)
}

// FirstValidationMessage 取第一条校验错误生成提示
func FirstValidationMessage(err error) (string, bool) {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return "", false
	}
	first := vErrs[0]
	if first.Tag() == "eqfield" {
		return fmt.Sprintf("字段 [%s] 必须与 [%s] 一致", first.Field(), first.Param()), true
	}
	return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", first.Field(), first.Tag()), true
}
