package main

import (
	"log/slog"
	"os"

	"codenav/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.NewStderrLogger(slog.LevelError).Error("command failed", "error", err.Error())
		os.Exit(1)
	}
}
