package types

// ModelUnavailableMessage is the fixed error reported while no model is loaded.
const ModelUnavailableMessage = "Model not loaded properly"

// PredictResponse is returned by POST /predict. Errors are reported with
// success=false and HTTP 200, never with an error status code.
type PredictResponse struct {
	// True when the image was classified.
	// example: true
	Success bool `json:"success" example:"true"`
	// Predicted class label.
	// example: Class2
	Prediction string `json:"prediction,omitempty" example:"Class2"`
	// Highest output score, reported as the certainty of the prediction.
	// example: 0.87
	Confidence *float64 `json:"confidence,omitempty" example:"0.87"`
	// Failure message when success is false.
	// example: Model not loaded properly
	Error string `json:"error,omitempty" example:"Model not loaded properly"`
}

// ErrorResponse is a consistent JSON error payload for auxiliary endpoints.
type ErrorResponse struct {
	// Error message.
	// example: failed to encode response
	Error string `json:"error" example:"failed to encode response"`
	// HTTP status code.
	// example: 500
	Code int `json:"code" example:"500"`
}

// PredictionCounts summarizes prediction outcomes since startup.
type PredictionCounts struct {
	Success          uint64 `json:"success"`
	ModelUnavailable uint64 `json:"model_unavailable"`
	DecodeFailure    uint64 `json:"decode_failure"`
	InferenceFailure uint64 `json:"inference_failure"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall state: ready or unavailable.
	// example: ready
	State string `json:"state" example:"ready"`
	// Model details; nil when no model is loaded.
	Model *ModelInfo `json:"model,omitempty"`
	// Ordered class labels, index-aligned with the model output.
	Labels []string `json:"labels"`
	// Error observed while loading the model (if any).
	LoadError string `json:"load_error,omitempty"`
	// Prediction outcome counters.
	Predictions PredictionCounts `json:"predictions"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
