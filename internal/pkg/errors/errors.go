// Package errors provides error types and logging utilities for gitmsg.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

// User errors (Exit Code 1)
const (
	ErrInvalidConfig ErrorCode = iota + 100
	ErrMissingCredential
	ErrInvalidArguments
	ErrUnknownProvider
	ErrNoRepository
	ErrInvocationInFlight
)

// System errors (Exit Code 2)
const (
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrFileSystemError
	ErrConfigCorruption
	ErrHostActionFailed
)

// External errors (Exit Code 3)
const (
	ErrNetworkError ErrorCode = iota + 300
	ErrMalformedResponse
	ErrTimeout
)

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1 // User errors
	case c >= 200 && c < 300:
		return 2 // System errors
	case c >= 300:
		return 3 // External errors
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrMissingCredential:
		return "MissingCredential"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrUnknownProvider:
		return "UnknownProvider"
	case ErrNoRepository:
		return "NoRepository"
	case ErrInvocationInFlight:
		return "InvocationInFlight"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrConfigCorruption:
		return "ConfigCorruption"
	case ErrHostActionFailed:
		return "HostActionFailed"
	case ErrNetworkError:
		return "NetworkError"
	case ErrMalformedResponse:
		return "MalformedResponse"
	case ErrTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether any AppError in the chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1 // Default to user error
}

// Common error constructors with suggestions

// NewNoRepositoryError creates an error for a working directory outside any git repository.
func NewNoRepositoryError(cause error) *AppError {
	return &AppError{
		Code:       ErrNoRepository,
		Message:    "no git repository found",
		Cause:      cause,
		Suggestion: "Run gitmsg from inside a git working tree",
	}
}

// NewMissingCredentialError creates an error naming the configuration field
// a provider needs before it can be called.
func NewMissingCredentialError(provider, field string) *AppError {
	appErr := &AppError{
		Code:       ErrMissingCredential,
		Message:    fmt.Sprintf("%s is not configured for the %s provider", field, provider),
		Suggestion: fmt.Sprintf("Set it with 'gitmsg config set %s <value>' or the %s environment variable", field, EnvVarForKey(field)),
	}
	return appErr.WithContext("field", field)
}

// NewUnknownProviderError creates an error for an unsupported provider identifier.
func NewUnknownProviderError(provider string) *AppError {
	return &AppError{
		Code:       ErrUnknownProvider,
		Message:    fmt.Sprintf("unknown provider: %s", provider),
		Suggestion: "Supported providers are openai, anthropic, google, ollama and custom",
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'gitmsg config init' to create a valid configuration file",
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewNetworkError creates an error for transport failures and non-2xx responses.
func NewNetworkError(provider string, err error) *AppError {
	return &AppError{
		Code:       ErrNetworkError,
		Message:    fmt.Sprintf("%s request failed", provider),
		Cause:      err,
		Suggestion: "Please check your network connection, endpoint and API key, then run the command again",
	}
}

// NewMalformedResponseError creates an error for a response body that does
// not have the shape the provider documents.
func NewMalformedResponseError(provider string, err error) *AppError {
	return &AppError{
		Code:    ErrMalformedResponse,
		Message: fmt.Sprintf("unexpected response from %s", provider),
		Cause:   err,
	}
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "request timed out",
		Cause:      err,
		Suggestion: "Please try again later",
	}
}

// NewInvocationInFlightError creates an error for an overlapping invocation.
func NewInvocationInFlightError() *AppError {
	return &AppError{
		Code:    ErrInvocationInFlight,
		Message: "a commit message is already being generated",
	}
}

// NewHostActionError creates an error for a failed side effect (input file,
// clipboard, terminal).
func NewHostActionError(action string, err error) *AppError {
	return &AppError{
		Code:    ErrHostActionFailed,
		Message: fmt.Sprintf("%s failed", action),
		Cause:   err,
	}
}

// EnvVarForKey returns the environment variable bound to a configuration key.
func EnvVarForKey(key string) string {
	return "GITMSG_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
// API keys and other sensitive data are automatically masked.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	result := apiKeyPattern.ReplaceAllStringFunc(msg, MaskAPIKey)
	result = googleKeyPattern.ReplaceAllStringFunc(result, MaskAPIKey)
	return queryKeyPattern.ReplaceAllString(result, "${1}****")
}

var (
	// apiKeyPattern matches OpenAI and Anthropic style keys (sk-..., sk-ant-...).
	apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`)
	// googleKeyPattern matches Google API keys.
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`)
	// queryKeyPattern matches a key passed as a URL query parameter.
	queryKeyPattern = regexp.MustCompile(`([?&]key=)[^&\s"']+`)
)
