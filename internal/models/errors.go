package models

import "fmt"

// ErrorKind is the pipeline error taxonomy. Each kind maps to a different
// corrective action for the caller, so they are never collapsed into a
// generic failure.
type ErrorKind string

const (
	// ErrUnsupportedFormat: input extension outside pdf/docx/txt. Fatal,
	// surfaced before any expensive work.
	ErrUnsupportedFormat ErrorKind = "unsupported_format"
	// ErrExtractionEmpty: no usable text even after the OCR fallback.
	ErrExtractionEmpty ErrorKind = "extraction_empty"
	// ErrModelTimeout: the gateway exhausted its retry budget on timeouts.
	ErrModelTimeout ErrorKind = "model_timeout"
	// ErrMalformedOutput: JSON parse failed even after one repair round.
	ErrMalformedOutput ErrorKind = "malformed_model_output"
	// ErrMissingInsert: client profile mandates a skills-matrix insert and
	// none was supplied. Checked before any model call is dispatched.
	ErrMissingInsert ErrorKind = "missing_required_insert"
	// ErrAssemblyFailure: template rendering or multi-part merge failed.
	ErrAssemblyFailure ErrorKind = "assembly_failure"
)

// PipelineError is the typed result stages return instead of raising. The
// wrapped cause stays internal; Message is safe for callers.
type PipelineError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	cause   error
}

func NewPipelineError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, cause: cause}
}

func (e *PipelineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.cause }

// Is allows errors.Is matching on the kind alone.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	return ok && t.Kind == e.Kind
}
