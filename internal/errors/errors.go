// Package errors defines the pipeline error taxonomy.
//
// Failures local to one fetch job or one row never propagate past their
// stage: they are absorbed, logged, and the stage returns a smaller but
// valid result. Only configuration errors are fatal, and those surface
// before any fetching starts.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the pipeline taxonomy
const (
	CodeFetchFailed      = "FETCH_FAILED"      // network/upstream failure
	CodeValidationFailed = "VALIDATION_FAILED" // structural mismatch in a batch
	CodeSchemaUnresolved = "SCHEMA_UNRESOLVED" // no recognizable date/price column
	CodeMergeFailed      = "MERGE_FAILED"      // missing join key on either side
	CodeConfigInvalid    = "CONFIG_INVALID"    // unparsable configuration, fatal
)

// Stage identifiers used in error reports and logs
const (
	StageFetch     = "fetch"
	StageNormalize = "normalize"
	StageMerge     = "merge"
	StageConfig    = "config"
	StageExport    = "export"
)

// PipelineError is a structured error carrying the stage and taxonomy code
// of a failure alongside the underlying cause.
type PipelineError struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying cause
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// New creates a new PipelineError with the given parameters
func New(stage, code, message string) *PipelineError {
	return &PipelineError{Stage: stage, Code: code, Message: message}
}

// Wrap creates a PipelineError wrapping an underlying cause
func Wrap(err error, stage, code, message string) *PipelineError {
	return &PipelineError{Stage: stage, Code: code, Message: message, Err: err}
}

// Predefined errors for common scenarios
var (
	ErrFetchFailed      = New(StageFetch, CodeFetchFailed, "upstream fetch failed")
	ErrValidationFailed = New(StageFetch, CodeValidationFailed, "batch failed structural validation")
	ErrSchemaUnresolved = New(StageNormalize, CodeSchemaUnresolved, "no recognizable schema in batch")
	ErrMergeFailed      = New(StageMerge, CodeMergeFailed, "join key missing from input series")
	ErrConfigInvalid    = New(StageConfig, CodeConfigInvalid, "invalid configuration")
)

// FetchError wraps an upstream failure with the identity of the failed job.
func FetchError(err error, job string) *PipelineError {
	return &PipelineError{
		Stage:   StageFetch,
		Code:    CodeFetchFailed,
		Message: "upstream fetch failed",
		Details: job,
		Err:     err,
	}
}

// ConfigError wraps a fatal configuration failure.
func ConfigError(err error, message string) *PipelineError {
	return Wrap(err, StageConfig, CodeConfigInvalid, message)
}

// Code extracts the taxonomy code from an error chain, or "" if the chain
// contains no PipelineError.
func Code(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsFatal reports whether an error must abort the whole run. Everything
// except configuration errors is absorbed at its stage.
func IsFatal(err error) bool {
	return Code(err) == CodeConfigInvalid
}
