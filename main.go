package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/0x0P/omok/internal"
	"github.com/0x0P/omok/internal/config"
)

const configFile = "config.yml"

// main loads the configuration, builds the logger and hands control to the
// application loop. Any startup failure surfaces as a panic caught here.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := mustConfig()
	logger := newLogger(conf.LogLevel)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("run app: %w", err))
	}
}

// mustConfig reads config.yml from the working directory.
func mustConfig() *config.Config {
	dir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("resolve working directory: %w", err))
	}

	return config.MustLoad(filepath.Join(dir, configFile))
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	if logLevel == "debug" {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
