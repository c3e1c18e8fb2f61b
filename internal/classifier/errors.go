package classifier

import (
	"errors"

	"plantid/pkg/types"
)

// Kind classifies a prediction failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindModelUnavailable
	KindDecode
	KindInference
)

func (k Kind) String() string {
	switch k {
	case KindModelUnavailable:
		return "model_unavailable"
	case KindDecode:
		return "decode_failure"
	case KindInference:
		return "inference_failure"
	default:
		return "unknown"
	}
}

// Error is returned by Predict. The message is what clients see.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindModelUnavailable {
		return types.ModelUnavailableMessage
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrModelUnavailable is returned for every prediction while no model is loaded.
var ErrModelUnavailable = &Error{Kind: KindModelUnavailable}

// KindOf returns the failure kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsModelUnavailable reports whether err means no model is loaded.
func IsModelUnavailable(err error) bool { return KindOf(err) == KindModelUnavailable }

// IsDecodeFailure reports whether the upload could not be turned into a tensor.
func IsDecodeFailure(err error) bool { return KindOf(err) == KindDecode }

// IsInferenceFailure reports whether the model run or its output was unusable.
func IsInferenceFailure(err error) bool { return KindOf(err) == KindInference }

// DecodeError wraps err as a decode failure.
func DecodeError(err error) error { return &Error{Kind: KindDecode, Err: err} }

// InferenceError wraps err as an inference failure.
func InferenceError(err error) error { return &Error{Kind: KindInference, Err: err} }
