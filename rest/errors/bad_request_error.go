package errors

// BadRequestError is returned when the request references fields or values that can't be served
type BadRequestError struct {
	msg string
}

func (e *BadRequestError) Error() string {
	return e.msg
}

func NewBadRequestError(text string) error {
	return &BadRequestError{text}
}
