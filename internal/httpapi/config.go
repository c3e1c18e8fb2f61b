package httpapi

// DefaultMaxUploadBytes bounds multipart uploads when not configured.
const DefaultMaxUploadBytes int64 = 32 << 20

// maxBodyBytes controls the maximum accepted request body for /predict.
var maxBodyBytes = DefaultMaxUploadBytes

// SetMaxUploadBytes configures the maximum upload size (<=0 restores the default).
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = DefaultMaxUploadBytes
		return
	}
	maxBodyBytes = n
}

// predictTimeout bounds a single prediction. Zero disables it.
var predictTimeout = int64(0) // seconds

// SetPredictTimeoutSeconds sets the prediction timeout in seconds (0 disables).
func SetPredictTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	predictTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
