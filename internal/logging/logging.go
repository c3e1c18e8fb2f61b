// Package logging builds the process logger from config.LogConfig.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"plantid/internal/common/fsutil"
	"plantid/internal/config"
)

// New returns a zerolog logger writing to out (console or JSON) and, when
// cfg.File is set, to a size-rotated file. The returned closer flushes the
// file writer and is never nil.
func New(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if out == nil {
		out = os.Stderr
	}
	var w io.Writer = out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stderr && out != os.Stdout}
	}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		p, err := fsutil.ExpandHome(cfg.File)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		lj := &lumberjack.Logger{
			Filename:   p,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		// The file always gets JSON lines.
		w = zerolog.MultiLevelWriter(w, lj)
		closer = lj
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "plantid").Logger()
	return l, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
