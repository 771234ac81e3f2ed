package errors

import "fmt"

// Error codes
const (
	CodeAPIError     = "API_ERROR"
	CodeFetch        = "FETCH_ERROR"
	CodeUserNotFound = "USER_NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConfig       = "CONFIG_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// APIError covers transport failures and non-success results from the
// Tautulli API envelope.
type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// FetchError signals a pagination run that could not be completed: either the
// backend kept reporting a total that was never reached within the page
// bound, or a page request failed partway through.
type FetchError struct {
	*AppError
	Pages int
	Total int
}

func NewFetchError(message string, pages, total int, cause error) *FetchError {
	return &FetchError{
		AppError: &AppError{
			Message: message,
			Code:    CodeFetch,
			Context: map[string]any{
				"pages": pages,
				"total": total,
			},
			Cause: cause,
		},
		Pages: pages,
		Total: total,
	}
}

// UserNotFoundError means the --user filter matched no known user.
type UserNotFoundError struct {
	*AppError
	Filter string
}

func NewUserNotFoundError(filter string) *UserNotFoundError {
	return &UserNotFoundError{
		AppError: &AppError{
			Message: fmt.Sprintf("no user matches %q", filter),
			Code:    CodeUserNotFound,
			Context: map[string]any{
				"filter": filter,
			},
		},
		Filter: filter,
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type ConfigError struct {
	*AppError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{
			Message: message,
			Code:    CodeConfig,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}
