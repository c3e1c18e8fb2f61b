package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"plantid/internal/classifier"
	"plantid/pkg/types"
)

// blockService waits for the prediction context; used to exercise the timeout path.
type blockService struct{}

func (b *blockService) Ready() bool                  { return true }
func (b *blockService) Labels() []string             { return nil }
func (b *blockService) Status() types.StatusResponse { return types.StatusResponse{} }
func (b *blockService) Predict(ctx context.Context, img []byte) (classifier.Prediction, error) {
	<-ctx.Done()
	return classifier.Prediction{}, classifier.InferenceError(ctx.Err())
}

func TestPredictLogsWithZerolog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	svc := &mockService{ready: true, labels: []string{"a", "b"}, pred: classifier.Prediction{Label: "b", Index: 1, Confidence: 0.9, Scores: []float64{0.1, 0.9}}}
	w, resp := doPredict(t, NewMux(svc), "/predict?log=debug", "file", pngBytes(t))
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}
	out := buf.String()
	if !bytes.Contains([]byte(out), []byte(`"label":"b"`)) || !bytes.Contains([]byte(out), []byte("predict scores")) {
		t.Fatalf("expected predict log lines, got %q", out)
	}
}

func TestPredictDebugScoresWithInfoLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	defer SetLogger(zerolog.Nop())

	svc := &mockService{ready: true, labels: []string{"a", "b"}, pred: classifier.Prediction{Label: "b", Index: 1, Confidence: 0.9, Scores: []float64{0.1, 0.9}}}
	h := NewMux(svc)
	body, ct := multipartBody(t, "file", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-Log-Level", "debug")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !bytes.Contains(buf.Bytes(), []byte("predict scores")) {
		t.Fatalf("expected top scores at info level, got %q", buf.String())
	}

	buf.Reset()
	doPredict(t, h, "/predict?log=info", "file", pngBytes(t))
	if bytes.Contains(buf.Bytes(), []byte("predict scores")) {
		t.Fatalf("scores must only be logged on debug requests, got %q", buf.String())
	}
}

func TestPredictLogOff(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())
	svc := &mockService{ready: true, pred: classifier.Prediction{Label: "x"}}
	doPredict(t, NewMux(svc), "/predict?log=off", "file", pngBytes(t))
	if buf.Len() != 0 {
		t.Fatalf("expected no logs, got %q", buf.String())
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)

	h := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header Access-Control-Allow-Origin to be set, got empty")
	}
}

func TestNoCORSByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}

func TestPredictTimeoutReturns200(t *testing.T) {
	defer SetPredictTimeoutSeconds(0)
	SetPredictTimeoutSeconds(1)

	w, resp := doPredict(t, NewMux(&blockService{}), "/predict", "file", pngBytes(t))
	if w.Code != http.StatusOK || resp.Success || resp.Error == "" {
		t.Fatalf("expected success=false with status 200 on timeout, got %d %+v", w.Code, resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK || !bytes.Contains(b, []byte("go_goroutines")) {
		t.Fatalf("status=%d", rec.Code)
	}
}
