package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/koscakluka/ema-console/core/styles"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, "voice_user", cfg.OperatorID)
	require.Equal(t, styles.Formal, cfg.Style())
	require.Equal(t, DefaultLogCapacity, cfg.LogCapacity)
	require.Equal(t, "http://localhost:8003/voice/command", cfg.Endpoints.Transcription)
	require.Equal(t, "http://localhost:8002/orchestrator", cfg.Endpoints.Forward)
	require.Equal(t, "http://localhost:8001/webhook/voice", cfg.Endpoints.Webhook)
	require.Equal(t, "http://localhost:8002/email/style", cfg.Endpoints.Style)
	require.Equal(t, CaptureMiniaudio, cfg.Capture.Backend)
	require.Equal(t, TranscriptionVoiceAgent, cfg.Transcription.Backend)
	require.Zero(t, cfg.Timeout())
	require.NoError(t, cfg.Validate())
}

func TestParse_OverlaysFileOnDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
operator_id: alice
default_style: bullet
request_timeout: 30s
endpoints:
  forward: http://relay.internal/orchestrator
capture:
  backend: portaudio
  buffer_size: 1024
`))
	require.NoError(t, err)

	require.Equal(t, "alice", cfg.OperatorID)
	require.Equal(t, styles.BulletSummary, cfg.Style())
	require.Equal(t, 30*time.Second, cfg.Timeout())
	require.Equal(t, "http://relay.internal/orchestrator", cfg.Endpoints.Forward)
	require.Equal(t, "http://localhost:8001/webhook/voice", cfg.Endpoints.Webhook)
	require.Equal(t, CapturePortaudio, cfg.Capture.Backend)
	require.Equal(t, 1024, cfg.Capture.BufferSize)
}

func TestParse_EmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_RejectsSchemaViolations(t *testing.T) {
	testCases := []struct {
		name     string
		yaml     string
		location string
	}{
		{name: "unknown key", yaml: "colour: blue\n", location: "/"},
		{name: "unknown style", yaml: "default_style: shouty\n", location: "/default_style"},
		{name: "unknown capture backend", yaml: "capture:\n  backend: alsa\n", location: "/capture/backend"},
		{name: "non-positive log capacity", yaml: "log_capacity: 0\n", location: "/log_capacity"},
		{name: "wrong type", yaml: "operator_id: [a, b]\n", location: "/operator_id"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Parse([]byte(testCase.yaml))

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Problems)
			require.True(t, strings.HasPrefix(validationErr.Problems[0], testCase.location),
				"expected problem at %s, got %v", testCase.location, validationErr.Problems)
		})
	}
}

func TestValidate_RejectsBadTimeout(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeout = "soon"

	var validationErr *ValidationError
	require.ErrorAs(t, cfg.Validate(), &validationErr)
	require.Contains(t, validationErr.Problems[0], "/request_timeout")
}

func TestValidate_DeepgramNeedsKey(t *testing.T) {
	cfg := Default()
	cfg.Transcription.Backend = TranscriptionDeepgram
	require.Error(t, cfg.Validate())

	ApplyEnvironment(cfg, envOf(map[string]string{EnvDeepgramAPIKey: "secret"}))
	require.NoError(t, cfg.Validate())
	require.Equal(t, "secret", cfg.Transcription.Deepgram.APIKey)
}

func TestApplyEnvironment_UsesServiceVariables(t *testing.T) {
	cfg := Default()

	ApplyEnvironment(cfg, envOf(map[string]string{
		EnvVoiceAgentURL:       "http://voice:9000/",
		EnvOrchestratorURLBase: "http://orchestrator:9001",
		EnvWebhookURL:          "http://proxy:9002/webhook/voice",
	}))

	require.Equal(t, "http://voice:9000/voice/command", cfg.Endpoints.Transcription)
	require.Equal(t, "http://orchestrator:9001/orchestrator", cfg.Endpoints.Forward)
	require.Equal(t, "http://orchestrator:9001/email/style", cfg.Endpoints.Style)
	require.Equal(t, "http://proxy:9002/webhook/voice", cfg.Endpoints.Webhook)
}

func TestApplyEnvironment_IgnoresEmptyValues(t *testing.T) {
	cfg := Default()

	ApplyEnvironment(cfg, envOf(map[string]string{EnvVoiceAgentURL: "  "}))
	ApplyEnvironment(cfg, noEnv)

	require.Equal(t, Default(), cfg)
}

func TestLoad_ReportsPathInValidationErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "default_style: shouty\n")

	_, err := Load(path)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, path, validationErr.Source)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve_MissingDefaultFileYieldsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvVoiceAgentURL, "")
	t.Setenv(EnvOrchestratorURLBase, "")
	t.Setenv(EnvWebhookURL, "")

	cfg, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, Default().Endpoints, cfg.Endpoints)
}

func TestSchema_IsValidJSONSchema(t *testing.T) {
	raw, err := Schema()
	require.NoError(t, err)
	require.Contains(t, string(raw), `"default_style"`)
	require.Contains(t, string(raw), `"bullet_summary"`)

	_, err = compiled()
	require.NoError(t, err)
}

func TestYAML_RoundTripsThroughParse(t *testing.T) {
	cfg := Default()
	cfg.OperatorID = "bob"
	cfg.RequestTimeout = "5s"

	data, err := cfg.YAML()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, parsed)
}
