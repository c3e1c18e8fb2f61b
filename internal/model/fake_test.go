package model

import (
	"context"
	"os"

	"plantid/internal/preprocess"
)

type fakeModel struct {
	info   Info
	closed bool
}

func (f *fakeModel) Info() Info { return f.info }
func (f *fakeModel) Run(ctx context.Context, t preprocess.Tensor) ([]float32, error) {
	return []float32{0.1, 0.7, 0.2}, nil
}
func (f *fakeModel) Close() error { f.closed = true; return nil }

// recordingOpen returns an OpenFunc that records the path it was given and
// whether the file existed and held want at that moment.
func recordingOpen(want string, openErr error, seen *string, existed *bool) OpenFunc {
	return func(path string, opts Options) (Model, error) {
		*seen = path
		b, err := os.ReadFile(path)
		*existed = err == nil && string(b) == want
		if openErr != nil {
			return nil, openErr
		}
		return &fakeModel{info: Info{Backend: "fake", OutputWidth: 3}}, nil
	}
}
