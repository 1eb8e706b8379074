// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"github.com/go-playground/validator/v10"

	domainerrors "biopass/internal/domain/errors"
)

// CustomValidator wraps a validator instance for use as echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates the request validator used by the HTTP server.
func New() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate checks a bound request struct against its validate tags.
// Failures surface as the generic invalid-input kind so the error middleware
// renders them uniformly.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return domainerrors.ErrInvalidInput.WrapMessage(err.Error())
	}

	return nil
}
