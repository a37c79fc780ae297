package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AppError represents a structured library error
type AppError struct {
	Code    int    // Business error code
	Message string // Human-readable message
	Err     error  // Underlying error (if any)
	Details string // Additional details
	Field   string // Offending configuration field (if any)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Category returns the category of this error
func (e *AppError) Category() Category {
	return GetCategory(e.Code)
}

// New creates a new AppError with the given code
func New(code int, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Details: detail,
	}
}

// Newf creates a new AppError with formatted details
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an error code
func Wrap(err error, code int, details ...string) *AppError {
	if err == nil {
		return nil
	}

	// If already an AppError, update details if provided
	var appErr *AppError
	if errors.As(err, &appErr) {
		if len(details) > 0 && details[0] != "" {
			appErr.Details = details[0]
		}
		return appErr
	}

	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}

	return &AppError{
		Code:    code,
		Message: GetMessage(code),
		Err:     err,
		Details: detail,
	}
}

// Wrapf wraps an error with formatted details
func Wrapf(err error, code int, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is checks if err is an AppError with the given code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsConfigError reports whether err is any configuration-category AppError
func IsConfigError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category() == CategoryConfig
	}
	return false
}

// ExtractCode extracts the error code from an error
func ExtractCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// ExtractField returns the offending field of a configuration error
func ExtractField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetDetails extracts error details
func GetDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Details != "" {
			return appErr.Details
		}
		if appErr.Err != nil {
			return appErr.Err.Error()
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// NewInternalError creates an internal error
func NewInternalError(details ...string) *AppError {
	return New(ErrInternal, details...)
}

// NewValidationError creates a validation error
func NewValidationError(field string) *AppError {
	e := New(ErrInvalidParams, fmt.Sprintf("validation failed for field: %s", field))
	e.Field = field
	return e
}

// NewConfigError reports a configuration field outside its valid range
func NewConfigError(field string, value interface{}, validRange string) *AppError {
	e := Newf(ErrChunkConfigInvalid, "%s=%v is invalid, valid range: %s", field, value, validRange)
	e.Field = field
	return e
}

// NewPresetNotFoundError names the requested preset and lists the valid ones
func NewPresetNotFoundError(requested string, valid []string) *AppError {
	ids := append([]string(nil), valid...)
	sort.Strings(ids)
	e := Newf(ErrPresetNotFound, "unknown preset %q, valid presets: %s", requested, strings.Join(ids, ", "))
	e.Field = "preset_id"
	return e
}

// NewStrategyNotFoundError names the requested quality strategy and lists the valid ones
func NewStrategyNotFoundError(requested string, valid []string) *AppError {
	names := append([]string(nil), valid...)
	sort.Strings(names)
	e := Newf(ErrQualityStrategyNotFound, "unknown quality strategy %q, valid strategies: %s", requested, strings.Join(names, ", "))
	e.Field = "quality_strategy"
	return e
}
