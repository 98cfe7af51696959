package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// validate is shared by all request types; gin's binding layer performs the
// same checks, this instance covers callers that construct requests directly
// (services, tests).
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 3-letter ISO 4217 style codes; case is normalized later.
	_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate runs struct-tag validation on any request type.
func Validate(req any) error {
	return validate.Struct(req)
}
