// Package docs holds the OpenAPI description served by the Swagger UI when
// the binary is built with -tags=swagger. Regenerate with
// `swag init -g cmd/plantid/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "plantid maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/predict": {
            "post": {
                "description": "Upload an image in multipart field \"file\". Failures are reported with success=false and HTTP 200.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Classify an image",
                "parameters": [
                    {"type": "file", "description": "Image to classify", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}}
                }
            }
        },
        "/api/predict/": {
            "post": {
                "description": "Upload an image in multipart field \"file\". Failures are reported with success=false and HTTP 200.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Classify an image",
                "parameters": [
                    {"type": "file", "description": "Image to classify", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "200 when a model is loaded, 503 otherwise.",
                "produces": ["text/plain"],
                "tags": ["status"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "ready", "schema": {"type": "string"}},
                    "503": {"description": "model unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/status": {
            "get": {
                "description": "Model source and shape, labels, load error and prediction counters.",
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 500},
                "error": {"type": "string", "example": "failed to encode response"}
            }
        },
        "types.ModelInfo": {
            "type": "object",
            "properties": {
                "backend": {"type": "string", "example": "onnx"},
                "input_shape": {"type": "array", "items": {"type": "integer"}},
                "layout": {"type": "string", "example": "nhwc"},
                "output_width": {"type": "integer", "example": 3},
                "source": {"type": "string", "example": "/srv/models/medicinal_plant_classifier.onnx"}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "confidence": {"type": "number", "example": 0.87},
                "error": {"type": "string", "example": "Model not loaded properly"},
                "prediction": {"type": "string", "example": "Class2"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "types.PredictionCounts": {
            "type": "object",
            "properties": {
                "decode_failure": {"type": "integer"},
                "inference_failure": {"type": "integer"},
                "model_unavailable": {"type": "integer"},
                "success": {"type": "integer"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "labels": {"type": "array", "items": {"type": "string"}},
                "load_error": {"type": "string"},
                "model": {"$ref": "#/definitions/types.ModelInfo"},
                "predictions": {"$ref": "#/definitions/types.PredictionCounts"},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "state": {"type": "string", "example": "ready"},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "plantid API",
	Description:      "Upload a plant image and receive the predicted class label and confidence.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
