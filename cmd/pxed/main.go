package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pxed/internal/app"
)

func main() {
	configDir := flag.String("config", "", "configuration `directory` (default: $PXED_CONFIG_DIR or the user config dir)")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := app.NewLogger(os.Stderr, level)
	slog.SetDefault(logger)

	application, err := app.New(app.Options{ConfigDir: *configDir, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pxed failed: %v\n", err)
		os.Exit(1)
	}
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pxed failed: %v\n", err)
		os.Exit(1)
	}
}
