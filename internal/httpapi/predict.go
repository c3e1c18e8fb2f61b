package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"plantid/internal/classifier"
	"plantid/pkg/types"
)

// uploadField is the multipart field carrying the image.
const uploadField = "file"

// uploadError is a failure to read the file part, tagged with a metric reason.
type uploadError struct {
	reason string
	err    error
}

func (e *uploadError) Error() string { return e.err.Error() }
func (e *uploadError) Unwrap() error { return e.err }

// readUpload returns the bytes of the "file" part. The request body must
// already be bounded with http.MaxBytesReader.
func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &uploadError{reason: "too_large", err: fmt.Errorf("upload exceeds %d bytes", mbe.Limit)}
		}
		return nil, &uploadError{reason: "bad_form", err: fmt.Errorf("invalid multipart upload: %w", err)}
	}
	f, _, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &uploadError{reason: "missing_file", err: errors.New("no file uploaded in field 'file'")}
		}
		return nil, &uploadError{reason: "bad_form", err: err}
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, &uploadError{reason: "read", err: fmt.Errorf("read upload: %w", err)}
	}
	return b, nil
}

// predictHandler godoc
// @Summary      Classify an image
// @Description  Upload an image in multipart field "file". Failures are reported with success=false and HTTP 200.
// @Tags         predict
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image to classify"
// @Success      200   {object}  types.PredictResponse
// @Router       /predict [post]
// @Router       /api/predict/ [post]
func predictHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lvl := requestLogLevel(r)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		img, uerr := readUpload(r)
		var (
			p   classifier.Prediction
			err error
		)
		// An unloaded model wins over upload problems.
		if uerr != nil && svc.Ready() {
			var ue *uploadError
			if errors.As(uerr, &ue) {
				IncrementUploadRejected(ue.reason)
			}
			err = classifier.DecodeError(uerr)
		} else {
			ctx, cancel := predictContext(r)
			p, err = svc.Predict(ctx, img)
			cancel()
		}

		resp := types.PredictResponse{Success: err == nil}
		if err != nil {
			resp.Error = err.Error()
		} else {
			conf := p.Confidence
			resp.Prediction = p.Label
			resp.Confidence = &conf
		}
		writeJSON(w, resp)

		if lvl >= LevelInfo || (err != nil && lvl >= LevelError) {
			var ev *zerolog.Event
			if err != nil {
				ev = zlog.Warn().Err(err).Str("outcome", classifier.KindOf(err).String())
			} else {
				ev = zlog.Info().Str("label", p.Label).Float64("confidence", p.Confidence)
			}
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				ev = ev.Str("request_id", rid)
			}
			ev.Str("path", r.URL.Path).Int("bytes", len(img)).Dur("dur", time.Since(start)).Msg("predict")
		}
		// Requested per call, so it is not capped by the process level.
		if lvl >= LevelDebug && err == nil {
			zlog.Info().Interface("top", classifier.TopK(p.Scores, svc.Labels(), 3)).Msg("predict scores")
		}
	}
}
