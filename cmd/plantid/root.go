package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plantid/internal/config"
	"plantid/internal/logging"
)

// options collects flag values. Only flags the user set override the
// config file and environment.
type options struct {
	configPath   string
	logLevel     string
	logFormat    string
	addr         string
	modelPath    string
	modelURL     string
	labels       string
	labelsFile   string
	requireModel bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "plantid",
		Short:         "Medicinal plant image classification service",
		SilenceUsage:  true,
		SilenceErrors: true,
		// serve is the default action
		RunE: func(cmd *cobra.Command, args []string) error { return runServe(cmd, o) },
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", os.Getenv("PLANTID_CONFIG"), "Config file (.yaml|.yml|.json|.toml; defaults PLANTID_CONFIG)")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (defaults PLANTID_LOG_LEVEL or info)")
	pf.StringVar(&o.logFormat, "log-format", "", "Log format: console|json")
	pf.StringVar(&o.modelPath, "model-path", "", "Local model file")
	pf.StringVar(&o.modelURL, "model-url", "", "Model URL, downloaded once at startup")
	pf.StringVar(&o.labels, "labels", "", "Comma separated class labels in model output order")
	pf.StringVar(&o.labelsFile, "labels-file", "", "File with one class label per line (or a JSON/YAML list)")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Load the model and serve HTTP",
		Example: "  plantid serve --model-path ~/models/plants.onnx --labels Class1,Class2,Class3",
		Args:    cobra.NoArgs,
		RunE:    func(cmd *cobra.Command, args []string) error { return runServe(cmd, o) },
	}
	for _, c := range []*cobra.Command{root, serveCmd} {
		c.Flags().StringVar(&o.addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults PLANTID_ADDR)")
		c.Flags().BoolVar(&o.requireModel, "require-model", false, "Exit instead of serving when the model cannot be loaded")
	}

	var top int
	predictCmd := &cobra.Command{
		Use:     "predict IMAGE...",
		Short:   "Classify local image files",
		Example: "  plantid predict --top 3 leaf.jpg",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, o, args, top)
		},
	}
	predictCmd.Flags().IntVar(&top, "top", 0, "Also print the N best labels")

	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "Print the resolved class labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.merge(cmd)
			if err != nil {
				return err
			}
			labels, err := cfg.Model.ResolveLabels()
			if err != nil {
				return err
			}
			for i, l := range labels {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, l)
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	root.AddCommand(serveCmd, predictCmd, labelsCmd, versionCmd)
	return root
}

// merge layers config file, environment and flags, in that order.
func (o *options) merge(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	o.applyFlags(cmd, &cfg)
	cfg.ApplyDefaults()
	return cfg, nil
}

// resolve merges and validates the configuration.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := o.merge(cmd)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func (o *options) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("addr") {
		cfg.Addr = o.addr
	}
	if changed("model-path") {
		cfg.Model.Path, cfg.Model.URL = o.modelPath, ""
	}
	if changed("model-url") {
		cfg.Model.URL, cfg.Model.Path = o.modelURL, ""
	}
	if changed("labels") {
		cfg.Model.Labels, cfg.Model.LabelsFile = config.SplitCSV(o.labels), ""
	}
	if changed("labels-file") {
		cfg.Model.LabelsFile, cfg.Model.Labels = o.labelsFile, nil
	}
	if changed("require-model") {
		cfg.Model.Require = o.requireModel
	}
	if changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
}

// setup resolves configuration and builds the process logger.
func (o *options) setup(cmd *cobra.Command, out io.Writer) (config.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}
	log, closer, err := logging.New(cfg.Log, out)
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}
	return cfg, log, closer, nil
}
