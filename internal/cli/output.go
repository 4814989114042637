package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/kgraph/internal/document"
	"github.com/roach88/kgraph/internal/graph"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected command or failed scenario
	ExitCommandError = 2 // Command error (unreadable document, database not found, etc.)
)

// CLI error codes. Document loading errors (E005, E008-E010) come from
// the document package; domain errors use their graph.ErrorCode.
const (
	ErrCodeGeneric     = "E001"                   // Generic error
	ErrCodeNotFound    = document.ErrCodeNotFound // File or database not found
	ErrCodeInvalidFlag = "E011"                   // Malformed flag or argument
	ErrCodeGolden      = "E012"                   // Golden file could not be read or written
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CommandError is a failure the CLI detects itself, before any document
// is loaded or pipeline runs.
type CommandError struct {
	Code    string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E005", "TABLE_NOT_FOUND", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err in the configured format and returns the ExitError the
// command should return. Domain errors are rejected commands (exit 1);
// unreadable documents and infrastructure failures are command errors
// (exit 2).
func (f *OutputFormatter) Fail(err error) error {
	var cmdErr *CommandError
	var loadErr *document.LoadError
	var domainErr *graph.Error
	switch {
	case errors.As(err, &cmdErr):
		if writeErr := f.Error(cmdErr.Code, cmdErr.Message, nil); writeErr != nil {
			return writeErr
		}
		return WrapExitError(ExitCommandError, "", err)
	case errors.As(err, &loadErr):
		details := map[string]any{}
		if loadErr.File != "" {
			details["file"] = loadErr.File
		}
		if loadErr.Pos.IsValid() {
			details["line"] = loadErr.Pos.Line()
			details["column"] = loadErr.Pos.Column()
		}
		if writeErr := f.Error(loadErr.Code, loadErr.Message, nonEmpty(details)); writeErr != nil {
			return writeErr
		}
		return WrapExitError(ExitCommandError, "", err)
	case errors.As(err, &domainErr):
		var details interface{}
		if len(domainErr.Details) > 0 {
			details = domainErr.Details
		}
		if writeErr := f.Error(string(domainErr.Code), domainErr.Message, details); writeErr != nil {
			return writeErr
		}
		return WrapExitError(ExitFailure, "", err)
	default:
		if writeErr := f.Error(ErrCodeGeneric, err.Error(), nil); writeErr != nil {
			return writeErr
		}
		return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
	}
}

func nonEmpty(details map[string]any) interface{} {
	if len(details) == 0 {
		return nil
	}
	return details
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
