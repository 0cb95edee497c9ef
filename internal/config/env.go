package config

import "strings"

// Environment variables shared with the backend services.
const (
	EnvVoiceAgentURL       = "VOICE_AGENT_URL"
	EnvOrchestratorURLBase = "ORCHESTRATOR_URL_BASE"
	EnvWebhookURL          = "MSG_PROXY_WEBHOOK_URL"
	EnvDeepgramAPIKey      = "DEEPGRAM_API_KEY"
)

// fromEnvironment applies the environment overrides and re-validates.
func fromEnvironment(cfg *Config, lookup func(string) (string, bool)) (*Config, error) {
	ApplyEnvironment(cfg, lookup)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvironment overrides endpoints and credentials from the variables
// the backend services use to find each other.
func ApplyEnvironment(cfg *Config, lookup func(string) (string, bool)) {
	if base, ok := lookupBase(lookup, EnvVoiceAgentURL); ok {
		cfg.Endpoints.Transcription = base + "/voice/command"
	}
	if base, ok := lookupBase(lookup, EnvOrchestratorURLBase); ok {
		cfg.Endpoints.Forward = base + "/orchestrator"
		cfg.Endpoints.Style = base + "/email/style"
	}
	if url, ok := lookup(EnvWebhookURL); ok && url != "" {
		cfg.Endpoints.Webhook = url
	}
	if key, ok := lookup(EnvDeepgramAPIKey); ok && key != "" {
		cfg.Transcription.Deepgram.APIKey = key
	}
}

func lookupBase(lookup func(string) (string, bool), name string) (string, bool) {
	value, ok := lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimRight(strings.TrimSpace(value), "/"), true
}
