package errors

import "errors"

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string {
	return e.msg
}

func NewNotFoundError(text string) error {
	return &NotFoundError{text}
}

// IsNotFound reports whether any error in the chain is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsBadRequest reports whether any error in the chain is a BadRequestError
func IsBadRequest(err error) bool {
	var target *BadRequestError
	return errors.As(err, &target)
}
