package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production always emits JSON so log
// shippers never see the text form; elsewhere LOG_FORMAT decides, and text
// output skips source locations to stay readable during development.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && (cfg.LogFormat == "json" || cfg.IsProduction()) {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
