package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/koscakluka/ema-console/internal/config"
	"github.com/koscakluka/ema-console/internal/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

var errNotTerminal = errors.New("ema-console needs an interactive terminal; use the diff or config subcommands from scripts")

type rootOptions struct {
	configPath    string
	debugLog      string
	capture       string
	transcription string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ema-console",
		Short: "Voice-to-email operator console",
		Long: `ema-console records a voice command, sends it through the transcription,
relay and drafting services and lets the operator review, restyle and confirm
the resulting email draft.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), opts, cmd.InOrStdin())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/ema-console/config.yaml)")
	cmd.Flags().StringVar(&opts.debugLog, "debug-log", "", "Write debug logs to this file")
	cmd.Flags().StringVar(&opts.capture, "capture", "", "Capture backend: miniaudio, portaudio or none")
	cmd.Flags().StringVar(&opts.transcription, "transcription", "", "Transcription backend: voice_agent or deepgram")

	cmd.AddCommand(newDiffCommand())
	cmd.AddCommand(newConfigCommand(&opts.configPath))

	return cmd
}

func execute() error {
	return newRootCommand().ExecuteContext(context.Background())
}

func exitCode(err error) int {
	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, errNotTerminal) {
		return ExitUsage
	}
	return ExitError
}

// loadConfig resolves the config file and applies the command line overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.capture != "" {
		cfg.Capture.Backend = o.capture
	}
	if o.transcription != "" {
		cfg.Transcription.Backend = o.transcription
	}
	if err := validateBackends(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func validateBackends(cfg *config.Config) error {
	switch cfg.Capture.Backend {
	case config.CaptureMiniaudio, config.CapturePortaudio, config.CaptureNone:
	default:
		return &config.ValidationError{Source: "flags", Problems: []string{
			fmt.Sprintf("--capture: unknown backend %q", cfg.Capture.Backend),
		}}
	}
	switch cfg.Transcription.Backend {
	case config.TranscriptionVoiceAgent, config.TranscriptionDeepgram:
	default:
		return &config.ValidationError{Source: "flags", Problems: []string{
			fmt.Sprintf("--transcription: unknown backend %q", cfg.Transcription.Backend),
		}}
	}
	return nil
}

func runConsole(ctx context.Context, opts *rootOptions, stdin io.Reader) error {
	if f, ok := stdin.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return errNotTerminal
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	if opts.debugLog != "" {
		closeLog, err := setupDebugLog(opts.debugLog)
		if err != nil {
			return err
		}
		defer closeLog()
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	relay := console.NewEventRelay(console.DefaultEventBuffer)
	session, cleanup, err := newSession(cfg, relay)
	if err != nil {
		return err
	}
	defer cleanup()

	slog.Info("console starting", "capture", cfg.Capture.Backend, "transcription", cfg.Transcription.Backend)
	return console.Run(ctx, session, relay)
}
