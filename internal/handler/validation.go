package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var actorIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._:-]{1,128}$`)

// RegisterValidations installs custom binding rules on gin's validator.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("actorid", func(fl validator.FieldLevel) bool {
			return actorIDPattern.MatchString(fl.Field().String())
		})
	}
}
