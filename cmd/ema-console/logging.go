package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// setupDebugLog routes everything the console logs into path: the bubbletea
// log, the default slog logger and the otel logger provider the core packages
// log through. The returned func flushes and closes the file.
func setupDebugLog(path string) (func(), error) {
	logFile, err := tea.LogToFile(path, "ema-console")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}

	provider, err := newLoggerProvider(logFile)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	global.SetLoggerProvider(provider)
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})))

	return func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("shutting down log provider", "error", err)
		}
		logFile.Close()
	}, nil
}

func newLoggerProvider(w io.Writer) (*sdklog.LoggerProvider, error) {
	exporter, err := stdoutlog.New(stdoutlog.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}
	return sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter))), nil
}
