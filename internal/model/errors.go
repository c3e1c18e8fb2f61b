package model

import "fmt"

// dependencyUnavailableError signals a missing runtime dependency (e.g. the
// ONNX Runtime shared library or a build without the onnx tag).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	_, ok := err.(dependencyUnavailableError)
	return ok
}

// downloadError reports a failed model fetch (transport error or non-2xx).
type downloadError struct {
	url    string
	status int
	err    error
}

func (e *downloadError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("download model %s: %v", e.url, e.err)
	}
	return fmt.Sprintf("download model %s: unexpected status %d", e.url, e.status)
}

func (e *downloadError) Unwrap() error { return e.err }

// IsDownloadFailure reports whether err came from fetching a model URL.
func IsDownloadFailure(err error) bool {
	_, ok := err.(*downloadError)
	return ok
}
