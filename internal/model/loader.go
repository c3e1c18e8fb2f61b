package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"plantid/internal/common/fsutil"
)

// Source names where the model comes from. Exactly one field is set.
type Source struct {
	Path string
	URL  string
}

func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// Loader obtains a Model from a Source. Zero value fields take defaults:
// Open is the build's backend, Client a client with Timeout, TempDir os.TempDir.
type Loader struct {
	Open    OpenFunc
	Options Options
	Client  *http.Client
	Timeout time.Duration
	TempDir string
	Log     zerolog.Logger
}

// Load opens the model once. URL sources are streamed into a temporary file
// that is removed on every exit path; there is no retry.
func (l *Loader) Load(ctx context.Context, src Source) (Model, error) {
	switch {
	case src.Path != "" && src.URL != "":
		return nil, errors.New("model source: path and url are mutually exclusive")
	case src.Path != "":
		return l.openPath(src.Path)
	case src.URL != "":
		return l.openURL(ctx, src.URL)
	default:
		return nil, errors.New("model source: no path or url configured")
	}
}

func (l *Loader) open() OpenFunc {
	if l.Open != nil {
		return l.Open
	}
	return OpenONNX
}

func (l *Loader) openPath(path string) (Model, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(p) {
		return nil, fmt.Errorf("model file not found: %s", p)
	}
	m, err := l.open()(p, l.Options)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", p, err)
	}
	l.Log.Info().Str("path", p).Str("backend", m.Info().Backend).Msg("model opened")
	return m, nil
}

func (l *Loader) openURL(ctx context.Context, url string) (Model, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: l.Timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &downloadError{url: url, err: err}
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, &downloadError{url: url, err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &downloadError{url: url, status: resp.StatusCode}
	}
	tmp, cleanup, err := fsutil.SpoolTemp(l.TempDir, "plantid-model-*.onnx", resp.Body)
	if err != nil {
		return nil, &downloadError{url: url, err: err}
	}
	defer cleanup()
	l.Log.Debug().Str("url", url).Str("tmp", tmp).Dur("took", time.Since(start)).Msg("model downloaded")
	m, err := l.open()(tmp, l.Options)
	if err != nil {
		return nil, fmt.Errorf("open model from %s: %w", url, err)
	}
	l.Log.Info().Str("url", url).Str("backend", m.Info().Backend).Msg("model opened")
	return m, nil
}
