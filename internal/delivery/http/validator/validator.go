// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"strings"

	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/errors"

	"github.com/go-playground/validator/v10"
)

// EchoValidator wraps a validator instance for use as echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New creates the request validator.
func New() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

// Validate checks the struct tags and converts failures into a domain error
// carrying one line per offending field.
func (v *EchoValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainerrors.ErrValidationFailed
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+": failed '"+fe.Tag()+"' validation")
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(fields, "; "))
}
