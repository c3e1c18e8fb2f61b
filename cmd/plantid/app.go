package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"plantid/internal/classifier"
	"plantid/internal/config"
	"plantid/internal/model"
	"plantid/internal/preprocess"
)

// openModel is the model backend; tests replace it.
var openModel model.OpenFunc = model.OpenONNX

func modelOptions(m config.ModelConfig) model.Options {
	return model.Options{
		ImageSize:      m.ImageSize,
		Layout:         m.Layout,
		RuntimeLibrary: m.RuntimeLibrary,
		Threads:        m.Threads,
	}
}

func preprocessOptions(m config.ModelConfig) (preprocess.Options, error) {
	filter, err := preprocess.ParseFilter(m.ResizeFilter)
	if err != nil {
		return preprocess.Options{}, err
	}
	o := preprocess.Options{Size: m.ImageSize, Scale: float32(m.PixelScale), Filter: &filter}
	if m.Layout != "" && m.Layout != "auto" {
		if o.Layout, err = preprocess.ParseLayout(m.Layout); err != nil {
			return preprocess.Options{}, err
		}
	}
	return o, nil
}

// buildClassifier loads the model once and wraps it. A load failure yields a
// classifier that reports the model as unavailable, unless require is set.
// Configuration errors are always returned.
func buildClassifier(ctx context.Context, cfg config.ModelConfig, log zerolog.Logger, require bool) (*classifier.Classifier, error) {
	labels, err := cfg.ResolveLabels()
	if err != nil {
		return nil, err
	}
	act, err := classifier.ParseActivation(cfg.Activation)
	if err != nil {
		return nil, err
	}
	pre, err := preprocessOptions(cfg)
	if err != nil {
		return nil, err
	}
	src := model.Source{Path: cfg.Path, URL: cfg.URL}
	ccfg := classifier.Config{
		Source:     src.String(),
		Labels:     labels,
		Preprocess: pre,
		Activation: act,
		Log:        log.With().Str("component", "classifier").Logger(),
	}

	opts := modelOptions(cfg)
	if r := model.Sanity(opts); r.Error != "" {
		log.Warn().Str("error", r.Error).Bool("onnx_built", r.OnnxBuilt).Strs("cpu_features", r.CPUFeatures).Msg("runtime sanity check")
	} else {
		log.Debug().Bool("onnx_built", r.OnnxBuilt).Strs("cpu_features", r.CPUFeatures).Msg("runtime sanity check")
	}
	loader := &model.Loader{
		Open:    openModel,
		Options: opts,
		Timeout: cfg.DownloadTimeout(),
		Log:     log.With().Str("component", "loader").Logger(),
	}
	start := time.Now()
	m, loadErr := loader.Load(ctx, src)
	if loadErr == nil {
		ccfg.Model = m
		c, err := classifier.New(ccfg)
		if err == nil {
			info := m.Info()
			log.Info().Str("source", src.String()).Str("backend", info.Backend).
				Ints64("input_shape", info.InputShape).Int("labels", len(labels)).
				Dur("took", time.Since(start)).Msg("model loaded")
			return c, nil
		}
		_ = m.Close()
		loadErr = err
	}
	if require {
		return nil, fmt.Errorf("load model %s: %w", src, loadErr)
	}
	log.Error().Err(loadErr).Str("source", src.String()).Msg("model unavailable; every prediction will fail")
	ccfg.Model, ccfg.LoadErr = nil, loadErr
	return classifier.New(ccfg)
}
