package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero chunk size",
			mutate:  func(c *Config) { c.Pipeline.MaxChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "zero input cap",
			mutate:  func(c *Config) { c.Pipeline.MaxInputChars = 0 },
			wantErr: true,
		},
		{
			name:    "negative speech rate",
			mutate:  func(c *Config) { c.Speech.Rate = -10 },
			wantErr: true,
		},
		{
			name:    "no translation permits",
			mutate:  func(c *Config) { c.Server.MaxConcurrent = 0 },
			wantErr: true,
		},
		{
			name: "prompt and prompt file together",
			mutate: func(c *Config) {
				c.Pipeline.SystemPrompt = "inline"
				c.Pipeline.SystemPromptFile = "file.txt"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Pipeline.MaxChunkSize != 1000 {
		t.Errorf("Pipeline.MaxChunkSize = %d, want 1000", cfg.Pipeline.MaxChunkSize)
	}
	if !cfg.Pipeline.ChunkingEnabled {
		t.Error("chunking should default to enabled")
	}
	if cfg.Pipeline.MaxInputChars != 5000 {
		t.Errorf("Pipeline.MaxInputChars = %d, want 5000", cfg.Pipeline.MaxInputChars)
	}
	if cfg.Provider.OllamaModel != "deepseek-r1:8b" {
		t.Errorf("Provider.OllamaModel = %q", cfg.Provider.OllamaModel)
	}
	if !cfg.Speech.Enabled || cfg.Speech.Binary != "espeak-ng" {
		t.Errorf("speech defaults wrong: %+v", cfg.Speech)
	}
}

func TestLoad_File(t *testing.T) {
	content := `
server:
  port: 9090
pipeline:
  chunking_enabled: false
  max_chunk_size: 400
speech:
  binary: espeak
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Pipeline.ChunkingEnabled {
		t.Error("chunking_enabled: false should stick")
	}
	if cfg.Pipeline.MaxChunkSize != 400 {
		t.Errorf("Pipeline.MaxChunkSize = %d, want 400", cfg.Pipeline.MaxChunkSize)
	}
	if cfg.Speech.Binary != "espeak" {
		t.Errorf("Speech.Binary = %q, want espeak", cfg.Speech.Binary)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Pipeline.MaxInputChars != 5000 {
		t.Errorf("Pipeline.MaxInputChars = %d, want default 5000", cfg.Pipeline.MaxInputChars)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "250")
	t.Setenv("ENABLE_CHUNKING", "False")
	t.Setenv("OPENAI_API_KEY", " sk-test-123 ")
	t.Setenv("SL_SERVER_PORT", "9999")
	t.Setenv("SL_SPEECH_ENABLED", "false")
	t.Setenv("SL_OLLAMA_MODEL", "llama3:8b")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.MaxChunkSize != 250 {
		t.Errorf("CHUNK_SIZE override: got %d", cfg.Pipeline.MaxChunkSize)
	}
	if cfg.Pipeline.ChunkingEnabled {
		t.Error("ENABLE_CHUNKING=False should disable chunking")
	}
	if cfg.Provider.OpenAIAPIKey != "sk-test-123" {
		t.Errorf("OPENAI_API_KEY should be trimmed, got %q", cfg.Provider.OpenAIAPIKey)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("SL_SERVER_PORT override: got %d", cfg.Server.Port)
	}
	if cfg.Speech.Enabled {
		t.Error("SL_SPEECH_ENABLED=false should disable speech")
	}
	if cfg.Provider.OllamaModel != "llama3:8b" {
		t.Errorf("SL_OLLAMA_MODEL override: got %q", cfg.Provider.OllamaModel)
	}
}

func TestResolveSystemPrompt(t *testing.T) {
	t.Run("InlineWins", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Pipeline.SystemPrompt = "inline instruction"
		got, err := cfg.ResolveSystemPrompt()
		if err != nil || got != "inline instruction" {
			t.Errorf("got (%q, %v)", got, err)
		}
	})

	t.Run("FromFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		if err := os.WriteFile(path, []byte("file instruction\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg := defaultConfig()
		cfg.Pipeline.SystemPromptFile = path
		got, err := cfg.ResolveSystemPrompt()
		if err != nil || got != "file instruction" {
			t.Errorf("got (%q, %v)", got, err)
		}
	})

	t.Run("Unset", func(t *testing.T) {
		got, err := defaultConfig().ResolveSystemPrompt()
		if err != nil || got != "" {
			t.Errorf("got (%q, %v), want empty", got, err)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Pipeline.SystemPromptFile = filepath.Join(t.TempDir(), "absent.txt")
		if _, err := cfg.ResolveSystemPrompt(); err == nil {
			t.Error("expected error for missing prompt file")
		}
	})
}
