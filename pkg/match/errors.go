package match

import "fmt"

// Validation error codes surfaced by Normalize.
const (
	CodeInvalidRange = "INVALID_RANGE"
	CodeInvalidEnum  = "INVALID_ENUM"
)

// ValidationError is a caller-fixable input error. It names the offending
// field so the HTTP layer can render a specific message.
type ValidationError struct {
	Code  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Msg)
}

func invalidRange(field, msg string) *ValidationError {
	return &ValidationError{Code: CodeInvalidRange, Field: field, Msg: msg}
}

func invalidEnum(field string, value any) *ValidationError {
	return &ValidationError{Code: CodeInvalidEnum, Field: field, Msg: fmt.Sprintf("unknown value %v", value)}
}
