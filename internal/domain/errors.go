package domain

import "fmt"

// Error types for domain-specific errors. The conversion taxonomy is strict:
// every one of these is fatal for the run.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation" // bad input arguments
	ErrorTypeMetadata   ErrorType = "metadata"   // unreadable/corrupt input file
	ErrorTypeOpen       ErrorType = "open"       // cannot create destination
	ErrorTypeExtraction ErrorType = "extraction" // engine signalled failure
	ErrorTypeWrite      ErrorType = "write"      // destination write failed
	ErrorTypeConfig     ErrorType = "config"     // bad configuration
)

// Error represents a domain-specific error with context
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *Error {
	return NewError(ErrorTypeValidation, message, err)
}

func MetadataError(message string, err error) *Error {
	return NewError(ErrorTypeMetadata, message, err)
}

func OpenError(message string, err error) *Error {
	return NewError(ErrorTypeOpen, message, err)
}

func ExtractionError(message string, err error) *Error {
	return NewError(ErrorTypeExtraction, message, err)
}

func WriteError(message string, err error) *Error {
	return NewError(ErrorTypeWrite, message, err)
}

func ConfigError(message string, err error) *Error {
	return NewError(ErrorTypeConfig, message, err)
}
