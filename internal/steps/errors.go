package steps

import (
	"fmt"
	"time"
)

// PrerequisiteMissingError indicates a required external tool or the cluster
// itself is unavailable. It is fatal to the batch, not to the process.
type PrerequisiteMissingError struct {
	// Requirement names the missing tool or capability.
	Requirement string
	Err         error
}

func (e *PrerequisiteMissingError) Error() string {
	return fmt.Sprintf("prerequisite %q missing: %v", e.Requirement, e.Err)
}

func (e *PrerequisiteMissingError) Unwrap() error { return e.Err }

// DeploymentTimeoutError indicates a bounded wait on the external controller expired.
type DeploymentTimeoutError struct {
	// Target names what was being waited on.
	Target  string
	Timeout time.Duration
	Err     error
}

func (e *DeploymentTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s: %v", e.Timeout, e.Target, e.Err)
}

func (e *DeploymentTimeoutError) Unwrap() error { return e.Err }

// UnresolvedPlaceholderError indicates the secrets document still contains a
// placeholder marker and has not been customized yet.
type UnresolvedPlaceholderError struct {
	Path   string
	Marker string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("secrets document %q still contains the %s placeholder", e.Path, e.Marker)
}

// ExternalCallError indicates an external API call returned a non-success
// status. The raw diagnostic is preserved for the operator.
type ExternalCallError struct {
	// Op names the external operation that failed.
	Op  string
	Err error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// SkipError aborts the current step without halting the batch.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

// Skip builds a SkipError with the given reason.
func Skip(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}
