// Package config provides the configuration structure for the tts-gateway.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Defaults applied by Normalize when the TOML document leaves a field unset.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 5002
	DefaultVCTKSpeaker    = "p225"
	DefaultBarkStyle      = "neutral"
	DefaultTimeoutSeconds = 120
)

// HTTPConfig holds the listener settings for the gateway.
type HTTPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// RunnerConfig describes one external model runner binary.
type RunnerConfig struct {
	Binary       string `toml:"binary"`
	ModelPath    string `toml:"model_path"`
	SampleRate   int    `toml:"sample_rate"`
	DefaultVoice string `toml:"default_voice"`
}

// ModelsConfig groups the runner settings per model family.
type ModelsConfig struct {
	VCTK RunnerConfig `toml:"vctk"`
	Bark RunnerConfig `toml:"bark"`
}

// NATSConfig holds the optional pipeline-worker settings. An empty URL
// disables the worker entirely.
type NATSConfig struct {
	URL                      string `toml:"url"`
	TextProcessedSubject     string `toml:"text_processed_subject"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"`
	AudioChunkCreatedSubject string `toml:"audio_chunk_created_subject"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
	ModelsDir   string `toml:"models_dir"`
}

// GatewayConfig holds request-handling settings.
type GatewayConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Config is the root configuration structure.
type Config struct {
	HTTP    HTTPConfig    `toml:"http"`
	Gateway GatewayConfig `toml:"gateway"`
	Models  ModelsConfig  `toml:"models"`
	NATS    NATSConfig    `toml:"nats"`
	Paths   PathsConfig   `toml:"paths"`
}

// Load loads the configuration for the tts-gateway and fills in defaults.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.Normalize()

	return &cfg, nil
}

// Normalize applies defaults for fields the TOML document left unset.
func (c *Config) Normalize() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = DefaultHost
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultPort
	}

	if c.Gateway.TimeoutSeconds == 0 {
		c.Gateway.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.Models.VCTK.DefaultVoice == "" {
		c.Models.VCTK.DefaultVoice = DefaultVCTKSpeaker
	}

	if c.Models.Bark.DefaultVoice == "" {
		c.Models.Bark.DefaultVoice = DefaultBarkStyle
	}
}

// WorkerEnabled reports whether the NATS pipeline worker should start.
func (c *Config) WorkerEnabled() bool {
	return c.NATS.URL != ""
}
