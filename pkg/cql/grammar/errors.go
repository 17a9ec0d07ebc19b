package grammar

import (
	"errors"
	"fmt"

	cqlerrors "mercator-hq/saturn/pkg/cql/errors"
)

var (
	// ErrUnknownVersion is returned when a grammar version is not registered.
	ErrUnknownVersion = errors.New("unknown grammar version")

	// ErrDuplicateVersion is returned when a version is registered twice.
	ErrDuplicateVersion = errors.New("grammar version already registered")

	// ErrRegistryFrozen is returned when registering into a frozen registry.
	ErrRegistryFrozen = errors.New("grammar registry is frozen")
)

// UnknownVersionError reports a request for a grammar version that is not
// registered. It matches ErrUnknownVersion with errors.Is.
type UnknownVersionError struct {
	// Version is the requested version
	Version string

	// Supported lists the registered versions at the time of the request
	Supported []string
}

// Error implements the error interface.
func (e *UnknownVersionError) Error() string {
	msg := fmt.Sprintf("unknown grammar version %q", e.Version)
	if s := e.Suggestion(); s != "" {
		msg += ": " + s
	}
	return msg
}

// Suggestion returns a hint naming the closest registered version.
func (e *UnknownVersionError) Suggestion() string {
	return cqlerrors.SuggestVersion(e.Version, e.Supported)
}

// Is reports whether target is ErrUnknownVersion.
func (e *UnknownVersionError) Is(target error) bool {
	return target == ErrUnknownVersion
}

// AsError converts the error into a rich analyzer error.
func (e *UnknownVersionError) AsError() *cqlerrors.Error {
	return &cqlerrors.Error{
		Type:       cqlerrors.ErrorTypeVersion,
		Message:    fmt.Sprintf("unknown grammar version %q", e.Version),
		Suggestion: e.Suggestion(),
	}
}

// DefinitionError reports an invalid grammar definition.
type DefinitionError struct {
	// Version is the version being built
	Version string

	// Field names the offending part of the definition (e.g., "keywords")
	Field string

	// Message describes the problem
	Message string
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid grammar %q: %s: %s", e.Version, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid grammar %q: %s", e.Version, e.Message)
}

// PackError reports a grammar pack that could not be loaded.
type PackError struct {
	// FilePath is the pack file
	FilePath string

	// Message describes the problem
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *PackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load grammar pack %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load grammar pack %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *PackError) Unwrap() error {
	return e.Cause
}
