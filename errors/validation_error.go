package errors

// ValidationError is returned when a payload or an edit does not satisfy the row schema.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(text string) error {
	return &ValidationError{text}
}
