package errors

import (
	"fmt"
)

// Category groups error codes by who has to act on them
type Category string

const (
	CategoryNone     Category = "none"
	CategoryConfig   Category = "config"   // caller supplied an invalid preset or configuration
	CategoryInput    Category = "input"    // caller supplied invalid input
	CategoryInternal Category = "internal" // failure inside the library
)

// Code represents an error code with its category and message
type Code struct {
	Code     int      // Business error code
	Category Category // Error category
	Message  string   // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternal      = 1000
	ErrInvalidParams = 1001
	ErrNotFound      = 1002

	// Chunking configuration errors (2000-2999)
	ErrChunkConfigInvalid      = 2000
	ErrPresetNotFound          = 2001
	ErrQualityStrategyNotFound = 2002
	ErrQualityWeightsInvalid   = 2003
	ErrSeparatorInvalid        = 2004

	// Document errors (3000-3999)
	ErrDocumentLoadFailed      = 3000
	ErrDocumentTypeUnsupported = 3001

	// Cache errors (4000-4999)
	ErrCacheUnavailable = 4000
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, CategoryNone, "Success"},

	// Common errors
	ErrInternal:      {ErrInternal, CategoryInternal, "Internal error"},
	ErrInvalidParams: {ErrInvalidParams, CategoryInput, "Invalid parameters"},
	ErrNotFound:      {ErrNotFound, CategoryInput, "Resource not found"},

	// Chunking configuration errors
	ErrChunkConfigInvalid:      {ErrChunkConfigInvalid, CategoryConfig, "Invalid chunking configuration"},
	ErrPresetNotFound:          {ErrPresetNotFound, CategoryConfig, "Chunking preset not found"},
	ErrQualityStrategyNotFound: {ErrQualityStrategyNotFound, CategoryConfig, "Quality strategy not found"},
	ErrQualityWeightsInvalid:   {ErrQualityWeightsInvalid, CategoryConfig, "Invalid quality weights"},
	ErrSeparatorInvalid:        {ErrSeparatorInvalid, CategoryConfig, "Invalid separator pattern"},

	// Document errors
	ErrDocumentLoadFailed:      {ErrDocumentLoadFailed, CategoryInput, "Document load failed"},
	ErrDocumentTypeUnsupported: {ErrDocumentTypeUnsupported, CategoryInput, "Unsupported document type"},

	// Cache errors
	ErrCacheUnavailable: {ErrCacheUnavailable, CategoryInternal, "Quality cache unavailable"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternal]
}

// GetCategory returns the category for a given error code
func GetCategory(code int) Category {
	return GetCode(code).Category
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsSuccess checks if the code represents success
func IsSuccess(code int) bool {
	return code == Success
}

// IsConfigCode checks if the code is a configuration error
func IsConfigCode(code int) bool {
	return GetCategory(code) == CategoryConfig
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
