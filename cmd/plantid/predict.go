package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"plantid/internal/model"
	"plantid/pkg/types"
)

// predictLine is one JSON line of `plantid predict` output.
type predictLine struct {
	File string `json:"file"`
	types.PredictResponse
	Top []types.ScoredLabel `json:"top,omitempty"`
}

func runPredict(cmd *cobra.Command, o *options, files []string, top int) error {
	cfg, log, closer, err := o.setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()
	defer model.Shutdown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	clf, err := buildClassifier(ctx, cfg.Model, log, true)
	if err != nil {
		return err
	}
	defer clf.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, f := range files {
		line := predictLine{File: f}
		b, err := os.ReadFile(f)
		if err != nil {
			line.Error = err.Error()
		} else if pred, perr := clf.Predict(ctx, b); perr != nil {
			line.Error = perr.Error()
		} else {
			conf := pred.Confidence
			line.Success, line.Prediction, line.Confidence = true, pred.Label, &conf
			if top > 0 {
				line.Top = clf.TopK(pred, top)
			}
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}
