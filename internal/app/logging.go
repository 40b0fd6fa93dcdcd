package app

import (
	"io"
	"log/slog"

	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/natefinch/lumberjack"
)

// LogOptions selects the handler installed by SetupLogging.
type LogOptions struct {
	JSON  bool
	Level slog.Level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging installs the process-wide slog logger writing to w and, when
// cfg.LogFile is set, to a size-rotated file. --debug lowers the level to
// debug. The returned closer releases the log file.
func SetupLogging(cfg *config.Config, w io.Writer, opts LogOptions) io.Closer {
	level := opts.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		w = io.MultiWriter(w, rotator)
		closer = rotator
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return closer
}
