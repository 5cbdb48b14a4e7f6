package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Kind classifies a dataset access failure. Kinds are part of the tool
// response contract: the MCP layer serializes them verbatim into the
// error_kind field.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindMalformed           Kind = "malformed"
	KindPathTraversal       Kind = "path_traversal_rejected"
	KindInvalidStage        Kind = "invalid_stage"
	KindInvalidCategory     Kind = "invalid_category"
	KindInvalidTarget       Kind = "invalid_target"
	KindMissingParameter    Kind = "missing_parameter"
	KindPipelineNotFound    Kind = "pipeline_not_found"
	KindVersionNotFound     Kind = "version_not_found"
	KindUnknownPipelineType Kind = "unknown_pipeline_type"
	KindNotAFile            Kind = "not_a_file"
	KindEncoding            Kind = "encoding_error"
	KindPermissionDenied    Kind = "permission_denied"
	KindIO                  Kind = "io_error"
)

// Error is the typed failure returned by every operation in this package.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind carried by err, or KindIO when err does not
// originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// fromOSError maps a filesystem error onto the kind taxonomy. The dataset
// directory may be modified concurrently by external pipeline runs, so a
// file disappearing between stat and open is an ordinary NotFound.
func fromOSError(err error, path string) *Error {
	switch {
	// ENOTDIR means a path component is a regular file; from the caller's
	// point of view the requested entry does not exist.
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return wrapError(KindNotFound, err, "not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return wrapError(KindPermissionDenied, err, "permission denied: %s", path)
	default:
		return wrapError(KindIO, err, "failed to access %s", path)
	}
}
