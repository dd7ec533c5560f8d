package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-auth-api/pkg/utils"
)

// 注册密码强度规则：>=8 位，大小写/数字/符号各至少一个
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
			return utils.StrongPassword(fl.Field().String())
		})
	}
}
