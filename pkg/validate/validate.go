package validate

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator adapts validator/v10 to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: Default()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	once sync.Once
	v    *validator.Validate
)

// Default returns the shared validator with the "notblank" rule registered.
func Default() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool { //nolint:errcheck
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return v
}

// FieldError is the first failing field of a struct validation.
type FieldError struct {
	Field string
	Tag   string
}

// First extracts the first field error, if err came from validator.
func First(err error) (FieldError, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return FieldError{}, false
	}
	return FieldError{Field: ve[0].Field(), Tag: ve[0].Tag()}, true
}
