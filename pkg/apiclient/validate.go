package apiclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks the `validate` struct tags on a request body
// before it is sent. Failures wrap ErrInvalidRequest and name each field.
func ValidateRequest(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		problems = append(problems, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, ", "))
}
