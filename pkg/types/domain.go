package types

// ModelInfo describes the model backing the prediction endpoint.
type ModelInfo struct {
	// Where the model was loaded from (file path or URL).
	// example: /srv/models/medicinal_plant_classifier.onnx
	Source string `json:"source" example:"/srv/models/medicinal_plant_classifier.onnx"`
	// Runtime backend that executes the model.
	// example: onnx
	Backend string `json:"backend,omitempty" example:"onnx"`
	// Input tensor shape including the batch dimension.
	// example: [1,224,224,3]
	InputShape []int64 `json:"input_shape,omitempty"`
	// Tensor layout fed to the model (nhwc or nchw).
	// example: nhwc
	Layout string `json:"layout,omitempty" example:"nhwc"`
	// Width of the model output vector.
	// example: 3
	OutputWidth int `json:"output_width,omitempty" example:"3"`
}
