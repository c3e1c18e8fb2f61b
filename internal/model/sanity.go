package model

import (
	"runtime"
	"sort"

	"golang.org/x/sys/cpu"

	"plantid/internal/common/fsutil"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	OnnxBuilt      bool     `json:"onnx_built"`
	RuntimeLibrary string   `json:"runtime_library,omitempty"`
	LibraryFound   bool     `json:"library_found"`
	GOARCH         string   `json:"goarch"`
	CPUFeatures    []string `json:"cpu_features,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Sanity inspects the build and host. It does not load anything.
func Sanity(opts Options) SanityReport {
	r := SanityReport{OnnxBuilt: OnnxBuilt, RuntimeLibrary: opts.RuntimeLibrary, GOARCH: runtime.GOARCH}
	for name, ok := range map[string]bool{
		"avx512f": cpu.X86.HasAVX512F,
		"avx2":    cpu.X86.HasAVX2,
		"fma":     cpu.X86.HasFMA,
		"sse41":   cpu.X86.HasSSE41,
		"asimd":   cpu.ARM64.HasASIMD,
	} {
		if ok {
			r.CPUFeatures = append(r.CPUFeatures, name)
		}
	}
	sort.Strings(r.CPUFeatures)
	switch {
	case !OnnxBuilt:
		r.Error = "onnx support not built (missing 'onnx' build tag)"
	case opts.RuntimeLibrary == "":
		// onnxruntime_go falls back to the platform default library name.
		r.LibraryFound = true
	default:
		p, err := fsutil.ExpandHome(opts.RuntimeLibrary)
		if err != nil {
			r.Error = err.Error()
			break
		}
		r.RuntimeLibrary = p
		r.LibraryFound = fsutil.PathExists(p)
		if !r.LibraryFound {
			r.Error = "onnxruntime library not found: " + p
		}
	}
	return r
}
