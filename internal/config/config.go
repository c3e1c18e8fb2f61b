package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when the corresponding fields are unset.
const (
	DefaultAddr                   = ":8080"
	DefaultImageSize              = 224
	DefaultLayout                 = "auto"
	DefaultActivation             = "none"
	DefaultResizeFilter           = "catmullrom"
	DefaultPixelScale             = 1.0
	DefaultDownloadTimeoutSeconds = 120
	DefaultMaxUploadBytes         = 32 << 20
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "console"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr  string      `json:"addr" yaml:"addr" toml:"addr"`
	Model ModelConfig `json:"model" yaml:"model" toml:"model"`
	HTTP  HTTPConfig  `json:"http" yaml:"http" toml:"http"`
	Log   LogConfig   `json:"log" yaml:"log" toml:"log"`
}

// ModelConfig selects the model source and describes its input/output contract.
// DownloadTimeoutSeconds of 0 takes the default; a negative value disables it.
type ModelConfig struct {
	Path                   string   `json:"path" yaml:"path" toml:"path"`
	URL                    string   `json:"url" yaml:"url" toml:"url"`
	Labels                 []string `json:"labels" yaml:"labels" toml:"labels"`
	LabelsFile             string   `json:"labels_file" yaml:"labels_file" toml:"labels_file"`
	ImageSize              int      `json:"image_size" yaml:"image_size" toml:"image_size"`
	Layout                 string   `json:"layout" yaml:"layout" toml:"layout"`
	PixelScale             float64  `json:"pixel_scale" yaml:"pixel_scale" toml:"pixel_scale"`
	Activation             string   `json:"activation" yaml:"activation" toml:"activation"`
	ResizeFilter           string   `json:"resize_filter" yaml:"resize_filter" toml:"resize_filter"`
	DownloadTimeoutSeconds int      `json:"download_timeout_seconds" yaml:"download_timeout_seconds" toml:"download_timeout_seconds"`
	RuntimeLibrary         string   `json:"runtime_library" yaml:"runtime_library" toml:"runtime_library"`
	Threads                int      `json:"threads" yaml:"threads" toml:"threads"`
	Require                bool     `json:"require" yaml:"require" toml:"require"`
}

// HTTPConfig tunes the HTTP layer.
type HTTPConfig struct {
	MaxUploadBytes        int64      `json:"max_upload_bytes" yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	PredictTimeoutSeconds int64      `json:"predict_timeout_seconds" yaml:"predict_timeout_seconds" toml:"predict_timeout_seconds"`
	CORS                  CORSConfig `json:"cors" yaml:"cors" toml:"cors"`
}

// CORSConfig is opt-in; when disabled no CORS middleware is installed.
type CORSConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// LogConfig controls the process logger. File output is rotated.
type LogConfig struct {
	Level      string `json:"level" yaml:"level" toml:"level"`
	Format     string `json:"format" yaml:"format" toml:"format"`
	File       string `json:"file" yaml:"file" toml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
}

// Default returns a Config with every default applied and no model source.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	m := &c.Model
	if m.ImageSize <= 0 {
		m.ImageSize = DefaultImageSize
	}
	if m.Layout == "" {
		m.Layout = DefaultLayout
	}
	if m.PixelScale == 0 {
		m.PixelScale = DefaultPixelScale
	}
	if m.Activation == "" {
		m.Activation = DefaultActivation
	}
	if m.ResizeFilter == "" {
		m.ResizeFilter = DefaultResizeFilter
	}
	if m.DownloadTimeoutSeconds == 0 {
		m.DownloadTimeoutSeconds = DefaultDownloadTimeoutSeconds
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.HTTP.CORS.Enabled {
		if len(c.HTTP.CORS.AllowedOrigins) == 0 {
			c.HTTP.CORS.AllowedOrigins = []string{"*"}
		}
		if len(c.HTTP.CORS.AllowedMethods) == 0 {
			c.HTTP.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(c.HTTP.CORS.AllowedHeaders) == 0 {
			c.HTTP.CORS.AllowedHeaders = []string{"Content-Type"}
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

var (
	validLayouts     = []string{"auto", "nhwc", "nchw"}
	validActivations = []string{"none", "softmax"}
	validFilters     = []string{"nearest", "box", "linear", "catmullrom", "lanczos"}
	validLogFormats  = []string{"console", "json"}
)

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	m := c.Model
	switch {
	case m.Path == "" && m.URL == "":
		errs = append(errs, errors.New("model.path or model.url is required"))
	case m.Path != "" && m.URL != "":
		errs = append(errs, errors.New("model.path and model.url are mutually exclusive"))
	case m.URL != "":
		u, err := url.Parse(m.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("model.url must be an absolute http(s) URL: %q", m.URL))
		}
	}
	switch {
	case len(m.Labels) == 0 && m.LabelsFile == "":
		errs = append(errs, errors.New("model.labels or model.labels_file is required"))
	case len(m.Labels) > 0 && m.LabelsFile != "":
		errs = append(errs, errors.New("model.labels and model.labels_file are mutually exclusive"))
	}
	for i, l := range m.Labels {
		if strings.TrimSpace(l) == "" {
			errs = append(errs, fmt.Errorf("model.labels[%d] is empty", i))
		}
	}
	if m.ImageSize <= 0 {
		errs = append(errs, fmt.Errorf("model.image_size must be positive, got %d", m.ImageSize))
	}
	if m.PixelScale <= 0 {
		errs = append(errs, fmt.Errorf("model.pixel_scale must be positive, got %v", m.PixelScale))
	}
	if !oneOf(m.Layout, validLayouts) {
		errs = append(errs, fmt.Errorf("model.layout must be one of %v, got %q", validLayouts, m.Layout))
	}
	if !oneOf(m.Activation, validActivations) {
		errs = append(errs, fmt.Errorf("model.activation must be one of %v, got %q", validActivations, m.Activation))
	}
	if !oneOf(m.ResizeFilter, validFilters) {
		errs = append(errs, fmt.Errorf("model.resize_filter must be one of %v, got %q", validFilters, m.ResizeFilter))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !oneOf(c.Log.Format, validLogFormats) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v, got %q", validLogFormats, c.Log.Format))
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides fields from PLANTID_* environment variables.
// A model source from the environment replaces the configured one.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PLANTID_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("PLANTID_MODEL_PATH"); v != "" {
		c.Model.Path, c.Model.URL = v, ""
	}
	if v := getenv("PLANTID_MODEL_URL"); v != "" {
		c.Model.URL, c.Model.Path = v, ""
	}
	if v := getenv("PLANTID_LABELS"); v != "" {
		c.Model.Labels, c.Model.LabelsFile = SplitCSV(v), ""
	}
	if v := getenv("PLANTID_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// SplitCSV splits a comma separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DownloadTimeout returns the model fetch timeout; 0 means none.
func (m ModelConfig) DownloadTimeout() time.Duration {
	if m.DownloadTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(m.DownloadTimeoutSeconds) * time.Second
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
