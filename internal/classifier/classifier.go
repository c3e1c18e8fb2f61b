// Package classifier turns uploaded image bytes into a label and confidence
// using the process-wide model. A Classifier built without a model answers
// every prediction with ErrModelUnavailable.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"plantid/internal/model"
	"plantid/internal/preprocess"
	"plantid/pkg/types"
)

// Prediction is a successful classification.
type Prediction struct {
	Label      string
	Index      int
	Confidence float64
	// Scores holds the per-class output after activation, index-aligned with labels.
	Scores []float64
}

// Config wires a Classifier. Model may be nil; LoadErr then explains why.
type Config struct {
	Model      model.Model
	Source     string
	LoadErr    error
	Labels     []string
	Preprocess preprocess.Options
	Activation Activation
	Log        zerolog.Logger
}

// Classifier is immutable after New and safe for concurrent use.
type Classifier struct {
	model      model.Model
	info       model.Info
	source     string
	loadErr    error
	labels     []string
	pre        preprocess.Options
	activation Activation
	log        zerolog.Logger
	started    time.Time

	rangeWarn sync.Once

	success, unavailable, decodeFail, inferFail atomic.Uint64
}

// CheckLabels verifies the label list matches the model output width.
// A width of 0 means the model does not declare it; the check is then
// deferred to prediction time.
func CheckLabels(info model.Info, labels []string) error {
	if len(labels) == 0 {
		return errors.New("no class labels configured")
	}
	if info.OutputWidth > 0 && info.OutputWidth != len(labels) {
		return fmt.Errorf("label count mismatch: model outputs %d classes but %d labels are configured", info.OutputWidth, len(labels))
	}
	return nil
}

// New validates cfg. It fails when a model is given whose output width does
// not match the labels; callers treat that as a model load failure.
func New(cfg Config) (*Classifier, error) {
	act, err := ParseActivation(string(cfg.Activation))
	if err != nil {
		return nil, err
	}
	c := &Classifier{
		source:     cfg.Source,
		loadErr:    cfg.LoadErr,
		labels:     append([]string(nil), cfg.Labels...),
		pre:        cfg.Preprocess,
		activation: act,
		log:        cfg.Log,
		started:    time.Now(),
	}
	if cfg.Model != nil {
		info := cfg.Model.Info()
		if err := CheckLabels(info, c.labels); err != nil {
			return nil, err
		}
		c.model, c.info = cfg.Model, info
		// The model's declared input wins over configured defaults.
		if s := info.ImageSize(); s > 0 {
			c.pre.Size = s
		}
		if info.Layout != "" {
			c.pre.Layout = info.Layout
		}
		modelLoaded.Set(1)
	} else {
		modelLoaded.Set(0)
	}
	return c, nil
}

// Ready reports whether a model is loaded.
func (c *Classifier) Ready() bool { return c.model != nil }

// Labels returns a copy of the ordered label list.
func (c *Classifier) Labels() []string { return append([]string(nil), c.labels...) }

// Predict classifies one encoded image. Every failure is an *Error; panics
// inside preprocessing or the model are reported as inference failures.
func (c *Classifier) Predict(ctx context.Context, img []byte) (p Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("prediction panicked")
			p, err = Prediction{}, InferenceError(fmt.Errorf("internal error: %v", r))
		}
		c.record(err)
	}()
	if c.model == nil {
		return Prediction{}, ErrModelUnavailable
	}
	t, err := preprocess.Prepare(img, c.pre)
	if err != nil {
		return Prediction{}, DecodeError(err)
	}
	start := time.Now()
	out, err := c.model.Run(ctx, t)
	inferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return Prediction{}, InferenceError(err)
	}
	return c.decide(out)
}

func (c *Classifier) decide(out []float32) (Prediction, error) {
	scores := c.activation.apply(out)
	idx, conf := argmax(scores)
	switch {
	case idx < 0:
		return Prediction{}, InferenceError(errors.New("model returned no usable scores"))
	case math.IsInf(conf, 0):
		return Prediction{}, InferenceError(errors.New("model returned a non-finite score"))
	case idx >= len(c.labels):
		return Prediction{}, InferenceError(fmt.Errorf("predicted class index %d is outside the %d configured labels", idx, len(c.labels)))
	}
	if conf < 0 || conf > 1 {
		c.rangeWarn.Do(func() {
			c.log.Warn().Float64("confidence", conf).Msg("model output is not a probability distribution; set model.activation=softmax for logit models")
		})
	}
	return Prediction{Label: c.labels[idx], Index: idx, Confidence: conf, Scores: scores}, nil
}

// TopK returns the k best labels of p.
func (c *Classifier) TopK(p Prediction, k int) []types.ScoredLabel {
	return TopK(p.Scores, c.labels, k)
}

func (c *Classifier) record(err error) {
	predictionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	switch KindOf(err) {
	case KindModelUnavailable:
		c.unavailable.Add(1)
	case KindDecode:
		c.decodeFail.Add(1)
	case KindInference:
		c.inferFail.Add(1)
	default:
		if err == nil {
			c.success.Add(1)
		}
	}
}

// Status builds the /status payload.
func (c *Classifier) Status() types.StatusResponse {
	now := time.Now()
	resp := types.StatusResponse{
		State:  "unavailable",
		Labels: c.Labels(),
		Predictions: types.PredictionCounts{
			Success:          c.success.Load(),
			ModelUnavailable: c.unavailable.Load(),
			DecodeFailure:    c.decodeFail.Load(),
			InferenceFailure: c.inferFail.Load(),
		},
		UptimeSeconds:  int64(now.Sub(c.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if c.loadErr != nil {
		resp.LoadError = c.loadErr.Error()
	}
	if c.model != nil {
		resp.State = "ready"
		resp.Model = &types.ModelInfo{
			Source:      c.source,
			Backend:     c.info.Backend,
			InputShape:  append([]int64(nil), c.info.InputShape...),
			Layout:      string(c.info.Layout),
			OutputWidth: c.info.OutputWidth,
		}
	}
	return resp
}

// Close releases the model.
func (c *Classifier) Close() error {
	if c.model == nil {
		return nil
	}
	return c.model.Close()
}
