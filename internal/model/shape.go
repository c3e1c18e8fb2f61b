package model

import (
	"fmt"

	"plantid/internal/preprocess"
)

// resolveInput turns a declared 4-D image input shape (dynamic dims as -1 or
// 0) into a concrete one for batch 1, choosing the channel layout.
func resolveInput(dims []int64, size int, layout string) ([]int64, preprocess.Layout, error) {
	if len(dims) != 4 {
		return nil, "", fmt.Errorf("expected a 4-D image input, model declares %v", dims)
	}
	var l preprocess.Layout
	switch layout {
	case "", "auto":
		switch {
		case dims[1] == 3:
			l = preprocess.NCHW
		case dims[3] == 3:
			l = preprocess.NHWC
		default:
			return nil, "", fmt.Errorf("cannot infer channel layout from input shape %v; set model.layout", dims)
		}
	default:
		var err error
		if l, err = preprocess.ParseLayout(layout); err != nil {
			return nil, "", err
		}
	}
	h, w := dims[1], dims[2]
	if l == preprocess.NCHW {
		h, w = dims[2], dims[3]
	}
	if h > 0 && w > 0 && h != w {
		return nil, "", fmt.Errorf("non-square model input %dx%d is not supported", h, w)
	}
	s := int64(size)
	if h > 0 {
		s = h
	}
	if s <= 0 {
		return nil, "", fmt.Errorf("model input size is dynamic and no image size is configured")
	}
	if l == preprocess.NCHW {
		return []int64{1, 3, s, s}, l, nil
	}
	return []int64{1, s, s, 3}, l, nil
}

// outputWidth returns the number of scores per sample, or 0 when any
// non-batch dimension is dynamic.
func outputWidth(dims []int64) int {
	if len(dims) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range dims[1:] {
		if d <= 0 {
			return 0
		}
		n *= d
	}
	if len(dims) == 1 {
		n = dims[0]
		if n <= 0 {
			return 0
		}
	}
	return int(n)
}

// outputShape returns the concrete output shape for batch 1, keeping the
// declared rank. It is nil when the width is dynamic.
func outputShape(dims []int64) []int64 {
	if outputWidth(dims) == 0 {
		return nil
	}
	s := append([]int64(nil), dims...)
	if len(s) > 1 {
		s[0] = 1
	}
	return s
}
