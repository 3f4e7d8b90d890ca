package errors

import (
	"errors"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TranslateValidatorError converts the errors of the go-playground validator into a single readable error
func TranslateValidatorError(err error, trans ut.Translator) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := validationErrors.Translate(trans)
	vals := make([]string, 0, len(errs))
	for _, fe := range validationErrors {
		vals = append(vals, errs[fe.Namespace()])
	}

	return NewBadRequestError(strings.Join(vals, " "))
}
