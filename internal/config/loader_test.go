package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: :9999
model:
  path: /srv/plants.onnx
  labels: [Class1, Class2, Class3]
  image_size: 224
  activation: softmax
http:
  max_upload_bytes: 1024
log:
  level: debug
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Model.Path != "/srv/plants.onnx" || len(cfg.Model.Labels) != 3 || cfg.Model.Activation != "softmax" || cfg.HTTP.MaxUploadBytes != 1024 || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model":{"url":"https://example.com/m.onnx","labels_file":"/etc/labels.txt","download_timeout_seconds":5},"http":{"cors":{"enabled":true}}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Model.URL != "https://example.com/m.onnx" || cfg.Model.LabelsFile != "/etc/labels.txt" || cfg.Model.DownloadTimeoutSeconds != 5 || !cfg.HTTP.CORS.Enabled {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\n[model]\npath=\"/x.onnx\"\nlabels=[\"a\",\"b\"]\nlayout=\"nchw\"\npixel_scale=0.00392156862745098\n[log]\nformat=\"json\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Model.Path != "/x.onnx" || len(cfg.Model.Labels) != 2 || cfg.Model.Layout != "nchw" || cfg.Model.PixelScale == 0 || cfg.Log.Format != "json" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if cfg.Addr != DefaultAddr || cfg.Model.ImageSize != DefaultImageSize {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "model:\n  path: /m.onnx\n")
	cfg, err = LoadOrDefault(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model.Path != "/m.onnx" || cfg.Model.ImageSize != DefaultImageSize || cfg.Addr != DefaultAddr {
		t.Fatalf("defaults not merged: %+v", cfg)
	}
	if _, err := LoadOrDefault(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
