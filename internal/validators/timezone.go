package validators

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// Register adds the custom binding tags used by request DTOs:
//
//	iana_tz    an IANA zone name such as "America/Sao_Paulo"
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("iana_tz", func(fl validator.FieldLevel) bool {
		return timezone.IsValid(fl.Field().String())
	})
}
