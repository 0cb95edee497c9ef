// Package config loads the console configuration from a YAML file, the
// service environment variables and built-in defaults, in increasing order of
// precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/koscakluka/ema-console/core/collaborators"
	"github.com/koscakluka/ema-console/core/styles"
	"gopkg.in/yaml.v3"
)

const (
	CaptureMiniaudio = "miniaudio"
	CapturePortaudio = "portaudio"
	CaptureNone      = "none"

	TranscriptionVoiceAgent = "voice_agent"
	TranscriptionDeepgram   = "deepgram"

	DefaultLogCapacity = 200
	DefaultBufferSize  = 480
)

type EndpointsConfig struct {
	Transcription string `yaml:"transcription,omitempty" json:"transcription,omitempty" jsonschema:"description=Voice agent command endpoint (multipart upload)"`
	Forward       string `yaml:"forward,omitempty" json:"forward,omitempty" jsonschema:"description=Relay endpoint for transcripts and confirmations"`
	Webhook       string `yaml:"webhook,omitempty" json:"webhook,omitempty" jsonschema:"description=Relay webhook endpoint for manual submissions"`
	Style         string `yaml:"style,omitempty" json:"style,omitempty" jsonschema:"description=Drafting endpoint that restyles the pending draft"`
}

type CaptureConfig struct {
	Backend    string `yaml:"backend,omitempty" json:"backend,omitempty" jsonschema:"enum=miniaudio,enum=portaudio,enum=none"`
	BufferSize int    `yaml:"buffer_size,omitempty" json:"buffer_size,omitempty" jsonschema:"minimum=1,description=Frames per read (portaudio only)"`
}

type DeepgramConfig struct {
	APIKey    string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	ListenURL string `yaml:"listen_url,omitempty" json:"listen_url,omitempty"`
	Model     string `yaml:"model,omitempty" json:"model,omitempty"`
	Language  string `yaml:"language,omitempty" json:"language,omitempty"`
}

type TranscriptionConfig struct {
	Backend  string         `yaml:"backend,omitempty" json:"backend,omitempty" jsonschema:"enum=voice_agent,enum=deepgram"`
	Deepgram DeepgramConfig `yaml:"deepgram,omitempty" json:"deepgram,omitempty"`
}

// Config is the top-level configuration loaded from config.yaml.
type Config struct {
	OperatorID     string              `yaml:"operator_id,omitempty" json:"operator_id,omitempty" jsonschema:"description=user_id sent with every request"`
	DefaultStyle   string              `yaml:"default_style,omitempty" json:"default_style,omitempty" jsonschema:"enum=formal,enum=casual,enum=concise,enum=bullet_summary,enum=bullet"`
	RequestTimeout string              `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty" jsonschema:"description=Go duration bounding each request; unset waits indefinitely"`
	LogCapacity    int                 `yaml:"log_capacity,omitempty" json:"log_capacity,omitempty" jsonschema:"minimum=1"`
	Endpoints      EndpointsConfig     `yaml:"endpoints,omitempty" json:"endpoints,omitempty"`
	Capture        CaptureConfig       `yaml:"capture,omitempty" json:"capture,omitempty"`
	Transcription  TranscriptionConfig `yaml:"transcription,omitempty" json:"transcription,omitempty"`
}

// Default returns a Config with every default populated.
func Default() *Config {
	return &Config{
		OperatorID:   collaborators.DefaultOperatorID,
		DefaultStyle: string(styles.Default),
		LogCapacity:  DefaultLogCapacity,
		Endpoints: EndpointsConfig{
			Transcription: collaborators.DefaultTranscriptionURL,
			Forward:       collaborators.DefaultForwardURL,
			Webhook:       collaborators.DefaultWebhookURL,
			Style:         collaborators.DefaultStyleURL,
		},
		Capture: CaptureConfig{
			Backend:    CaptureMiniaudio,
			BufferSize: DefaultBufferSize,
		},
		Transcription: TranscriptionConfig{
			Backend: TranscriptionVoiceAgent,
		},
	}
}

// DefaultPath is config.yaml under the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ema-console", "config.yaml")
}

// Resolve loads path, or the default path when path is empty. A missing
// default file yields the defaults; a missing explicit file is an error.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	path = DefaultPath()
	if path == "" {
		return fromEnvironment(Default(), os.LookupEnv)
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return fromEnvironment(Default(), os.LookupEnv)
	}
	return cfg, err
}

// Load reads and validates the file at path, overlays it on the defaults and
// applies the environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err == nil {
		cfg, err = fromEnvironment(cfg, os.LookupEnv)
	}
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			validationErr.Source = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse validates data against the schema and overlays it on the defaults.
// The environment is not consulted and Validate is left to the caller.
func Parse(data []byte) (*Config, error) {
	if problems := ValidateBytes(data); len(problems) > 0 {
		return nil, &ValidationError{Source: "config", Problems: problems}
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := Default()
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// Validate checks the values the schema cannot express.
func (c *Config) Validate() error {
	problems := []string{}
	if _, err := styles.Parse(c.DefaultStyle); err != nil {
		problems = append(problems, fmt.Sprintf("/default_style: %v", err))
	}
	if c.RequestTimeout != "" {
		if timeout, err := time.ParseDuration(c.RequestTimeout); err != nil || timeout < 0 {
			problems = append(problems, fmt.Sprintf("/request_timeout: invalid duration %q", c.RequestTimeout))
		}
	}
	if c.Transcription.Backend == TranscriptionDeepgram && c.Transcription.Deepgram.APIKey == "" {
		problems = append(problems, "/transcription/deepgram/api_key: required for the deepgram backend (or set DEEPGRAM_API_KEY)")
	}
	if len(problems) > 0 {
		return &ValidationError{Source: "config", Problems: problems}
	}
	return nil
}

// Style returns the parsed default style.
func (c *Config) Style() styles.Style {
	style, err := styles.Parse(c.DefaultStyle)
	if err != nil {
		return styles.Default
	}
	return style
}

// Timeout returns the parsed request timeout; zero means unbounded.
func (c *Config) Timeout() time.Duration {
	timeout, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return timeout
}

func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ValidationError lists every problem found in a config source.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Source, strings.Join(e.Problems, "; "))
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	overlay(&dst.OperatorID, src.OperatorID)
	overlay(&dst.DefaultStyle, src.DefaultStyle)
	overlay(&dst.RequestTimeout, src.RequestTimeout)
	if src.LogCapacity != 0 {
		dst.LogCapacity = src.LogCapacity
	}

	overlay(&dst.Endpoints.Transcription, src.Endpoints.Transcription)
	overlay(&dst.Endpoints.Forward, src.Endpoints.Forward)
	overlay(&dst.Endpoints.Webhook, src.Endpoints.Webhook)
	overlay(&dst.Endpoints.Style, src.Endpoints.Style)

	overlay(&dst.Capture.Backend, src.Capture.Backend)
	if src.Capture.BufferSize != 0 {
		dst.Capture.BufferSize = src.Capture.BufferSize
	}

	overlay(&dst.Transcription.Backend, src.Transcription.Backend)
	overlay(&dst.Transcription.Deepgram.APIKey, src.Transcription.Deepgram.APIKey)
	overlay(&dst.Transcription.Deepgram.ListenURL, src.Transcription.Deepgram.ListenURL)
	overlay(&dst.Transcription.Deepgram.Model, src.Transcription.Deepgram.Model)
	overlay(&dst.Transcription.Deepgram.Language, src.Transcription.Deepgram.Language)
}

func overlay(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
