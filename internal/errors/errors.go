package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeParsing
	ErrorTypeSanitization
	ErrorTypeNotFound
	ErrorTypeConfiguration
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeParsing:
		return "PARSING"
	case ErrorTypeSanitization:
		return "SANITIZATION"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	default:
		return "UNKNOWN"
	}
}

// Error codes
const (
	CodeMissingPackageName = "MISSING_PACKAGE_NAME"
	CodeUnsupportedShape   = "UNSUPPORTED_SHAPE"
	CodeIndexDecode        = "INDEX_DECODE"
	CodeVersionDecode      = "VERSION_DECODE"
	CodeIndexRead          = "INDEX_READ"
	CodePackageNotFound    = "PACKAGE_NOT_FOUND"
	CodeConfigRead         = "CONFIG_READ"
	CodeConfigDecode       = "CONFIG_DECODE"
	CodeUnknown            = "UNKNOWN"
)

// Error represents an error with a type, a code and optional context
type Error struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Stack       []string          `json:"stack,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *Error) WithSuggestions(suggestions []string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// FormatDetailed returns a detailed error message with context and suggestions
func (e *Error) FormatDetailed() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s error [%s]: %s\n", e.Type.String(), e.Code, e.Message))

	if len(e.Context) > 0 {
		builder.WriteString("\nContext:\n")
		keys := make([]string, 0, len(e.Context))
		for key := range e.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			builder.WriteString(fmt.Sprintf("   %s: %s\n", key, e.Context[key]))
		}
	}

	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("\nUnderlying cause: %v\n", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString("\nSuggestions:\n")
		for _, suggestion := range e.Suggestions {
			builder.WriteString(fmt.Sprintf("   - %s\n", suggestion))
		}
	}

	return builder.String()
}

// NewError creates a new Error
func NewError(errorType ErrorType, code, message string) *Error {
	return &Error{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     captureStack(),
	}
}

// WrapError wraps an existing error
func WrapError(err error, errorType ErrorType, code, message string) *Error {
	return &Error{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Cause:     err,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     captureStack(),
	}
}

// As returns the *Error in err's chain, if any
func As(err error) (*Error, bool) {
	var target *Error
	if stderrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// captureStack captures the current stack trace
func captureStack() []string {
	var stack []string

	// Skip this function and the constructor
	for i := 2; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		// Only include frames from our project
		if strings.Contains(file, "fdroidmeta") {
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}

	return stack
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(code, message string) *Error {
	return NewError(ErrorTypeValidation, code, message).
		WithSuggestion("Check the index entry and try again")
}

// NewParsingError creates a parsing error
func NewParsingError(code, message string) *Error {
	return NewError(ErrorTypeParsing, code, message).
		WithSuggestions([]string{
			"Verify the file is an index-v1 document",
			"Check if the file is truncated or corrupted",
		})
}

// NewSanitizationError creates an error for a value the sanitizer cannot
// handle. It marks a bug in the caller, not bad input.
func NewSanitizationError(code, message string) *Error {
	return NewError(ErrorTypeSanitization, code, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(code, message string) *Error {
	return NewError(ErrorTypeNotFound, code, message).
		WithSuggestions([]string{
			"Verify the resource exists",
			"Check the path or identifier",
		})
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *Error {
	return NewError(ErrorTypeConfiguration, code, message).
		WithSuggestions([]string{
			"Check the configuration file syntax",
			"Run 'fdroidmeta config init' to regenerate configuration",
		})
}

// Handler provides centralized error handling. It is safe for concurrent use.
type Handler struct {
	logger Logger

	mu    sync.Mutex
	stats *Stats
}

// Logger interface for error logging
type Logger interface {
	Error(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// Stats tracks error statistics
type Stats struct {
	TotalErrors   int               `json:"total_errors"`
	ErrorsByType  map[ErrorType]int `json:"errors_by_type"`
	ErrorsByCode  map[string]int    `json:"errors_by_code"`
	LastError     *Error            `json:"last_error,omitempty"`
	LastErrorTime time.Time         `json:"last_error_time"`
}

func newStats() *Stats {
	return &Stats{
		ErrorsByType: make(map[ErrorType]int),
		ErrorsByCode: make(map[string]int),
	}
}

// NewHandler creates a new error handler. A nil logger disables logging.
func NewHandler(logger Logger) *Handler {
	return &Handler{
		logger: logger,
		stats:  newStats(),
	}
}

// Handle records err and logs it at WARN
func (h *Handler) Handle(err error) *Error {
	if err == nil {
		return nil
	}

	e, ok := As(err)
	if !ok {
		e = WrapError(err, ErrorTypeUnknown, CodeUnknown, "unexpected error")
	}

	h.mu.Lock()
	h.stats.TotalErrors++
	h.stats.ErrorsByType[e.Type]++
	h.stats.ErrorsByCode[e.Code]++
	h.stats.LastError = e
	h.stats.LastErrorTime = time.Now()
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.Warn("%s [%s] %s", e.Type.String(), e.Code, e.Error())
		for key, value := range e.Context {
			h.logger.Debug("Error context: %s = %s", key, value)
		}
	}
	return e
}

// GetStats returns a snapshot of the error statistics
func (h *Handler) GetStats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := *h.stats
	snapshot.ErrorsByType = make(map[ErrorType]int, len(h.stats.ErrorsByType))
	for k, v := range h.stats.ErrorsByType {
		snapshot.ErrorsByType[k] = v
	}
	snapshot.ErrorsByCode = make(map[string]int, len(h.stats.ErrorsByCode))
	for k, v := range h.stats.ErrorsByCode {
		snapshot.ErrorsByCode[k] = v
	}
	return snapshot
}

// Reset resets error statistics
func (h *Handler) Reset() {
	h.mu.Lock()
	h.stats = newStats()
	h.mu.Unlock()
}
