//go:build !onnx

package model

// No-CGO stub compiled when the 'onnx' build tag is not set. The real backend
// lives in onnx.go.

// OnnxBuilt reports whether this binary carries the ONNX Runtime backend.
const OnnxBuilt = false

// OpenONNX fails fast: the runtime is not available in this build.
func OpenONNX(path string, opts Options) (Model, error) {
	return nil, ErrDependencyUnavailable("onnx support not built (missing 'onnx' build tag)")
}

// Shutdown is a no-op without the onnx backend.
func Shutdown() {}
