//go:build onnx

package model

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"plantid/internal/preprocess"
)

// OnnxBuilt reports whether this binary carries the ONNX Runtime backend.
const OnnxBuilt = true

var (
	envOnce sync.Once
	envErr  error
)

func initEnvironment(lib string) error {
	envOnce.Do(func() {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			envErr = ErrDependencyUnavailable(fmt.Sprintf("initialize onnxruntime: %v", err))
		}
	})
	return envErr
}

// Shutdown releases the process-wide ONNX Runtime environment.
func Shutdown() {
	if ort.IsInitialized() {
		_ = ort.DestroyEnvironment()
	}
}

type onnxModel struct {
	session  *ort.DynamicAdvancedSession
	info     Info
	outShape []int64
}

// OpenONNX opens an .onnx file with a dynamic session; input and output
// tensors are allocated per Run so concurrent calls do not share buffers.
func OpenONNX(path string, opts Options) (Model, error) {
	if err := initEnvironment(opts.RuntimeLibrary); err != nil {
		return nil, err
	}
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	if len(inputs) != 1 || len(outputs) < 1 {
		return nil, fmt.Errorf("expected one input and at least one output, got %d/%d", len(inputs), len(outputs))
	}
	in, out := inputs[0], outputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return nil, fmt.Errorf("input %q has element type %v, want float32", in.Name, in.DataType)
	}
	shape, layout, err := resolveInput([]int64(in.Dimensions), opts.ImageSize, opts.Layout)
	if err != nil {
		return nil, err
	}
	width := outputWidth([]int64(out.Dimensions))
	outShape := outputShape([]int64(out.Dimensions))
	if width == 0 {
		return nil, fmt.Errorf("output %q has dynamic shape %v", out.Name, out.Dimensions)
	}
	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	defer so.Destroy()
	if opts.Threads > 0 {
		if err := so.SetIntraOpNumThreads(opts.Threads); err != nil {
			return nil, fmt.Errorf("set threads: %w", err)
		}
	}
	session, err := ort.NewDynamicAdvancedSession(path, []string{in.Name}, []string{out.Name}, so)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	return &onnxModel{
		session:  session,
		outShape: outShape,
		info: Info{
			Backend:     "onnx",
			InputName:   in.Name,
			OutputName:  out.Name,
			InputShape:  shape,
			Layout:      layout,
			OutputWidth: width,
		},
	}, nil
}

func (m *onnxModel) Info() Info { return m.info }

func (m *onnxModel) Run(ctx context.Context, t preprocess.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	input, err := ort.NewTensor(ort.NewShape(t.Shape...), t.Data)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer input.Destroy()
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(m.outShape...))
	if err != nil {
		return nil, fmt.Errorf("output tensor: %w", err)
	}
	defer output.Destroy()
	if err := m.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return append([]float32(nil), output.GetData()...), nil
}

func (m *onnxModel) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
