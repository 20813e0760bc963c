// Package config loads service configuration from an optional YAML
// file with environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Speech   SpeechConfig   `yaml:"speech"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Timeouts are plain seconds so YAML stays trivial to write.
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSecs     int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs    int    `yaml:"write_timeout_secs"`
	IdleTimeoutSecs     int    `yaml:"idle_timeout_secs"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs"`
	// MaxConcurrent bounds simultaneous translation runs.
	MaxConcurrent int64 `yaml:"max_concurrent"`
	// AcquireTimeoutSecs is how long a request may wait for a
	// translation permit before giving up with 503.
	AcquireTimeoutSecs int `yaml:"acquire_timeout_secs"`
}

type ProviderConfig struct {
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
}

type PipelineConfig struct {
	MaxChunkSize    int  `yaml:"max_chunk_size"`
	ChunkingEnabled bool `yaml:"chunking_enabled"`
	// MaxInputChars caps the text accepted by the translate endpoint.
	MaxInputChars int `yaml:"max_input_chars"`
	// SystemPrompt replaces the built-in instruction when set;
	// SystemPromptFile points at a file holding the same.
	SystemPrompt     string `yaml:"system_prompt"`
	SystemPromptFile string `yaml:"system_prompt_file"`
}

type SpeechConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Binary      string `yaml:"binary"`
	Voice       string `yaml:"voice"`
	Rate        int    `yaml:"rate"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type WatchConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	Archived      string `yaml:"archived"`
	MaxConcurrent int64  `yaml:"max_concurrent"`
	SettleDelayMS int    `yaml:"settle_delay_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads the YAML file at path when given, applies environment
// overrides and returns the result on top of working defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8000,
			ReadTimeoutSecs:     60,
			WriteTimeoutSecs:    600,
			IdleTimeoutSecs:     120,
			ShutdownTimeoutSecs: 15,
			MaxConcurrent:       4,
			AcquireTimeoutSecs:  15,
		},
		Provider: ProviderConfig{
			OpenAIModel:   "gpt-4o-mini",
			GeminiModel:   "gemini-2.5-flash",
			OllamaBaseURL: "http://localhost:11434",
			OllamaModel:   "deepseek-r1:8b",
			TimeoutSecs:   300,
		},
		Pipeline: PipelineConfig{
			MaxChunkSize:    1000,
			ChunkingEnabled: true,
			MaxInputChars:   5000,
		},
		Speech: SpeechConfig{
			Enabled:     true,
			Binary:      "espeak-ng",
			Voice:       "en-us",
			Rate:        175,
			TimeoutSecs: 60,
		},
		Watch: WatchConfig{
			Input:         "data/input",
			Output:        "data/output",
			Archived:      "data/archived",
			MaxConcurrent: 2,
			SettleDelayMS: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides maps environment variables onto config fields.
// CHUNK_SIZE, ENABLE_CHUNKING and the two API key variables keep their
// historical names; everything else is SL_ prefixed.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MaxChunkSize = n
		}
	}
	if v := os.Getenv("ENABLE_CHUNKING"); v != "" {
		cfg.Pipeline.ChunkingEnabled = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Provider.OpenAIAPIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Provider.GeminiAPIKey = strings.TrimSpace(v)
	}

	if v := os.Getenv("SL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SL_SERVER_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxConcurrent = n
		}
	}
	if v := os.Getenv("SL_OPENAI_MODEL"); v != "" {
		cfg.Provider.OpenAIModel = v
	}
	if v := os.Getenv("SL_GEMINI_MODEL"); v != "" {
		cfg.Provider.GeminiModel = v
	}
	if v := os.Getenv("SL_OLLAMA_URL"); v != "" {
		cfg.Provider.OllamaBaseURL = v
	}
	if v := os.Getenv("SL_OLLAMA_MODEL"); v != "" {
		cfg.Provider.OllamaModel = v
	}
	if v := os.Getenv("SL_SPEECH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Speech.Enabled = b
		}
	}
	if v := os.Getenv("SL_SPEECH_BINARY"); v != "" {
		cfg.Speech.Binary = v
	}
	if v := os.Getenv("SL_SPEECH_VOICE"); v != "" {
		cfg.Speech.Voice = v
	}
	if v := os.Getenv("SL_SPEECH_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Speech.Rate = n
		}
	}
	if v := os.Getenv("SL_SYSTEM_PROMPT_FILE"); v != "" {
		cfg.Pipeline.SystemPromptFile = v
	}
	if v := os.Getenv("SL_WATCH_INPUT"); v != "" {
		cfg.Watch.Input = v
	}
	if v := os.Getenv("SL_WATCH_OUTPUT"); v != "" {
		cfg.Watch.Output = v
	}
	if v := os.Getenv("SL_WATCH_ARCHIVED"); v != "" {
		cfg.Watch.Archived = v
	}
	if v := os.Getenv("SL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SL_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxConcurrent < 1 {
		return fmt.Errorf("server.max_concurrent must be at least 1, got %d", c.Server.MaxConcurrent)
	}
	if c.Pipeline.MaxChunkSize <= 0 {
		return fmt.Errorf("pipeline.max_chunk_size must be greater than 0, got %d", c.Pipeline.MaxChunkSize)
	}
	if c.Pipeline.MaxInputChars <= 0 {
		return fmt.Errorf("pipeline.max_input_chars must be greater than 0, got %d", c.Pipeline.MaxInputChars)
	}
	if c.Speech.Rate <= 0 {
		return fmt.Errorf("speech.rate must be greater than 0, got %d", c.Speech.Rate)
	}
	if c.Watch.MaxConcurrent < 1 {
		return fmt.Errorf("watch.max_concurrent must be at least 1, got %d", c.Watch.MaxConcurrent)
	}
	if c.Pipeline.SystemPrompt != "" && c.Pipeline.SystemPromptFile != "" {
		return fmt.Errorf("pipeline.system_prompt and pipeline.system_prompt_file are mutually exclusive")
	}
	return nil
}

// ResolveSystemPrompt returns the configured instruction override, or
// "" when the built-in one should be used.
func (c *Config) ResolveSystemPrompt() (string, error) {
	if c.Pipeline.SystemPrompt != "" {
		return c.Pipeline.SystemPrompt, nil
	}
	if c.Pipeline.SystemPromptFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Pipeline.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("reading system prompt file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
