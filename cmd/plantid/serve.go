package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"plantid/internal/httpapi"
	"plantid/internal/model"
)

func runServe(cmd *cobra.Command, o *options) error {
	cfg, log, closer, err := o.setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer model.Shutdown()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	clf, err := buildClassifier(baseCtx, cfg.Model, log, cfg.Model.Require)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}
	defer clf.Close()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetMaxUploadBytes(cfg.HTTP.MaxUploadBytes)
	httpapi.SetPredictTimeoutSeconds(cfg.HTTP.PredictTimeoutSeconds)
	c := cfg.HTTP.CORS
	httpapi.SetCORSOptions(c.Enabled, c.AllowedOrigins, c.AllowedMethods, c.AllowedHeaders)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(clf),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("model_loaded", clf.Ready()).Msg("plantid listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case err, ok := <-errCh:
		if ok {
			log.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
