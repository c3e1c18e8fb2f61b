// Package model loads the classification model once at startup and exposes
// it behind a small interface the classifier can drive.
//
//   - model.go: Model interface, Info, Options.
//   - loader.go: Loader resolving a local path or a URL (via a temp file).
//   - onnx.go: ONNX Runtime backend, built with `-tags=onnx`.
//   - onnx_stub.go: no-CGO stub used when the tag is not set.
//   - errors.go: error types and helpers.
//   - sanity.go: runtime dependency report.
package model

import (
	"context"

	"plantid/internal/preprocess"
)

// Model runs a single forward pass and returns the flattened output vector.
// Implementations must be safe for concurrent Run calls.
type Model interface {
	Info() Info
	Run(ctx context.Context, in preprocess.Tensor) ([]float32, error)
	Close() error
}

// Info describes the model's input/output contract as discovered at load.
type Info struct {
	Backend    string
	InputName  string
	OutputName string
	// InputShape is the concrete shape requests are built with, batch first.
	InputShape []int64
	Layout     preprocess.Layout
	// OutputWidth is the number of classes; 0 when the model does not declare it.
	OutputWidth int
}

// ImageSize returns the spatial input size implied by InputShape, or 0.
func (i Info) ImageSize() int {
	if len(i.InputShape) != 4 {
		return 0
	}
	if i.Layout == preprocess.NCHW {
		return int(i.InputShape[2])
	}
	return int(i.InputShape[1])
}

// Options are backend parameters. Layout "auto" (or empty) lets the backend
// infer channel order from the model's declared input shape.
type Options struct {
	ImageSize      int
	Layout         string
	RuntimeLibrary string
	Threads        int
}

// OpenFunc opens a model file from local disk.
type OpenFunc func(path string, opts Options) (Model, error)
