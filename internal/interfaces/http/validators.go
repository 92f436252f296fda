package http

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// E.164 without separators. Registration accepts either email or phone, so
// the binding layer validates the format before the use case sees it.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}
