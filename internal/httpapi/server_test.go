package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"plantid/internal/classifier"
	"plantid/pkg/types"
)

type mockService struct {
	status     types.StatusResponse
	ready      bool
	labels     []string
	pred       classifier.Prediction
	predictErr error
	calls      int
	got        []byte
}

func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Labels() []string             { return m.labels }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Predict(ctx context.Context, img []byte) (classifier.Prediction, error) {
	m.calls++
	m.got = img
	if !m.ready {
		return classifier.Prediction{}, classifier.ErrModelUnavailable
	}
	if m.predictErr != nil {
		return classifier.Prediction{}, m.predictErr
	}
	return m.pred, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{G: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "leaf.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(content)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func doPredict(t *testing.T, h http.Handler, path, field string, content []byte) (*httptest.ResponseRecorder, types.PredictResponse) {
	t.Helper()
	body, ct := multipartBody(t, field, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var resp types.PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v body=%q", err, w.Body.String())
	}
	return w, resp
}

func TestPredict_Success(t *testing.T) {
	svc := &mockService{ready: true, labels: []string{"Class1", "Class2", "Class3"}, pred: classifier.Prediction{Label: "Class2", Index: 1, Confidence: 0.87}}
	h := NewMux(svc)
	img := pngBytes(t)
	for _, path := range []string{"/predict", "/api/predict/"} {
		w, resp := doPredict(t, h, path, "file", img)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", path, w.Code)
		}
		if !resp.Success || resp.Prediction != "Class2" || resp.Confidence == nil || *resp.Confidence != 0.87 || resp.Error != "" {
			t.Fatalf("%s: unexpected response %+v", path, resp)
		}
		if !bytes.Equal(svc.got, img) {
			t.Fatalf("%s: service did not receive the uploaded bytes", path)
		}
	}
}

func TestPredict_ModelUnavailable(t *testing.T) {
	svc := &mockService{ready: false}
	h := NewMux(svc)
	w, resp := doPredict(t, h, "/predict", "file", pngBytes(t))
	if w.Code != http.StatusOK || resp.Success || resp.Error != types.ModelUnavailableMessage {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}
	// Unavailable wins over a missing file.
	w, resp = doPredict(t, h, "/predict", "other", pngBytes(t))
	if w.Code != http.StatusOK || resp.Error != types.ModelUnavailableMessage {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}
	var raw map[string]any
	body, ct := multipartBody(t, "file", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	_ = json.Unmarshal(rec.Body.Bytes(), &raw)
	if _, ok := raw["prediction"]; ok {
		t.Fatalf("failure payload must not carry prediction: %v", raw)
	}
	if _, ok := raw["confidence"]; ok {
		t.Fatalf("failure payload must not carry confidence: %v", raw)
	}
}

func TestPredict_ServiceErrorsReturn200(t *testing.T) {
	cases := []error{
		classifier.DecodeError(bytes.ErrTooLarge),
		classifier.InferenceError(context.DeadlineExceeded),
	}
	for _, e := range cases {
		svc := &mockService{ready: true, predictErr: e}
		w, resp := doPredict(t, NewMux(svc), "/predict", "file", []byte("not an image"))
		if w.Code != http.StatusOK || resp.Success || resp.Error == "" {
			t.Fatalf("status=%d resp=%+v", w.Code, resp)
		}
	}
}

func TestPredict_MissingFileField(t *testing.T) {
	svc := &mockService{ready: true}
	w, resp := doPredict(t, NewMux(svc), "/predict", "image", pngBytes(t))
	if w.Code != http.StatusOK || resp.Success || !strings.Contains(resp.Error, "no file") {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}
	if svc.calls != 0 {
		t.Fatalf("service should not be called without a file")
	}
}

func TestPredict_NotMultipart(t *testing.T) {
	svc := &mockService{ready: true}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, req)
	var resp types.PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || resp.Success || resp.Error == "" {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}
}

func TestPredict_BodyTooLarge(t *testing.T) {
	SetMaxUploadBytes(1024)
	defer SetMaxUploadBytes(0)
	svc := &mockService{ready: true}
	w, resp := doPredict(t, NewMux(svc), "/predict", "file", bytes.Repeat([]byte("a"), 4096))
	if w.Code != http.StatusOK || resp.Success || resp.Error == "" {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}
	if svc.calls != 0 {
		t.Fatalf("service should not be called for an oversized upload")
	}
}

func TestPredict_EmptyFileReachesService(t *testing.T) {
	svc := &mockService{ready: true, predictErr: classifier.DecodeError(bytes.ErrTooLarge)}
	_, resp := doPredict(t, NewMux(svc), "/predict", "file", nil)
	if resp.Success || svc.calls != 1 || len(svc.got) != 0 {
		t.Fatalf("calls=%d got=%d resp=%+v", svc.calls, len(svc.got), resp)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", Labels: []string{"a"}, Predictions: types.PredictionCounts{Success: 4}}}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || body.Predictions.Success != 4 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{ready: true}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{ready: false}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "model unavailable") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestIndexPage(t *testing.T) {
	svc := &mockService{ready: true, labels: []string{"Aloe vera", "Neem"}}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("status=%d ct=%s", w.Code, w.Header().Get("Content-Type"))
	}
	body := w.Body.String()
	if !strings.Contains(body, `name="file"`) || !strings.Contains(body, "Aloe vera") {
		t.Fatalf("unexpected page: %q", body)
	}
	w = httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(w.Body.String(), "Model not loaded") {
		t.Fatalf("unavailable page should say so")
	}
}
