package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
)

func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
			path = ""
		} else {
			return nil, fmt.Errorf("failed to read config %q: %w", opts.configPath, err)
		}
	}

	conf, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, nil
}

func newLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
