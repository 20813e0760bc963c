package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/simplylegal/simplylegal/internal/auth"
	"github.com/simplylegal/simplylegal/internal/cleanup"
	"github.com/simplylegal/simplylegal/internal/config"
	"github.com/simplylegal/simplylegal/internal/confirm"
	"github.com/simplylegal/simplylegal/internal/files"
	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/pipeline"
	"github.com/simplylegal/simplylegal/internal/provider"
	"github.com/simplylegal/simplylegal/internal/speech"
	"github.com/spf13/cobra"
)

var (
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
	saveKey      = auth.SaveKey
	deleteKey    = auth.DeleteKey
)

// addRuntimeFlags wires the flags every long-running subcommand shares.
func addRuntimeFlags(cmd *cobra.Command, configPath, logFilePath *string, debug *bool) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVar(logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(debug, "debug", false, "Enable debug logging")
}

// loadConfig reads, validates and returns the effective configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging configures the global logger. The flag value takes
// precedence over logging.file from the configuration.
func initLogging(cfg *config.Config, logFilePath string, debug bool) error {
	level := logLevelFromConfig(cfg, debug)

	path := logFilePath
	if path == "" {
		path = cfg.Logging.File
	}
	var logFileW io.Writer
	if path != "" {
		if err := files.RejectSymlinkPath(path); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

func logLevelFromConfig(cfg *config.Config, debug bool) logger.Level {
	if debug {
		return logger.LevelDebug
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		return logger.LevelDebug
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// fillProviderKeys copies keychain credentials into cfg for any cloud
// provider the config file and environment left blank.
func fillProviderKeys(cfg *config.Config) {
	if cfg.Provider.OpenAIAPIKey == "" {
		if key, source := getKey(auth.ServiceOpenAI, false); key != "" {
			logger.Info("Using API key", "service", auth.ServiceOpenAI, "source", source)
			cfg.Provider.OpenAIAPIKey = key
		}
	}
	if cfg.Provider.GeminiAPIKey == "" {
		if key, source := getKey(auth.ServiceGemini, false); key != "" {
			logger.Info("Using API key", "service", auth.ServiceGemini, "source", source)
			cfg.Provider.GeminiAPIKey = key
		}
	}
}

// buildProvider resolves the completion backend from the configuration.
func buildProvider(ctx context.Context, cfg *config.Config) (provider.Client, error) {
	client, err := provider.Resolve(ctx, provider.Config{
		OpenAI: provider.OpenAISettings{
			APIKey:  cfg.Provider.OpenAIAPIKey,
			Model:   cfg.Provider.OpenAIModel,
			BaseURL: cfg.Provider.OpenAIBaseURL,
		},
		Gemini: provider.GeminiSettings{
			APIKey: cfg.Provider.GeminiAPIKey,
			Model:  cfg.Provider.GeminiModel,
		},
		Ollama: provider.OllamaSettings{
			BaseURL: cfg.Provider.OllamaBaseURL,
			Model:   cfg.Provider.OllamaModel,
			Timeout: time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		},
	})
	if err != nil {
		return nil, err
	}
	if closer, ok := client.(io.Closer); ok {
		cleanup.Register(closer.Close)
	}
	return client, nil
}

// buildSynthesizer returns the configured speech engine, or nil when
// speech is disabled. A missing binary is only warned about here so the
// health endpoint can still report the degraded state.
func buildSynthesizer(cfg *config.Config) speech.Synthesizer {
	if !cfg.Speech.Enabled {
		return nil
	}
	engine := speech.NewEngine(nil, cfg.Speech.Binary, cfg.Speech.Voice, cfg.Speech.Rate,
		time.Duration(cfg.Speech.TimeoutSecs)*time.Second)
	if !engine.Available() {
		logger.Warn("Speech binary not found, synthesis will fail until it is installed", "binary", cfg.Speech.Binary)
	}
	return engine
}

func buildPipeline(cfg *config.Config, client provider.Client, synth speech.Synthesizer) (*pipeline.Pipeline, error) {
	systemPrompt, err := cfg.ResolveSystemPrompt()
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Config{
		Provider:        client,
		Synthesizer:     synth,
		MaxChunkSize:    cfg.Pipeline.MaxChunkSize,
		ChunkingEnabled: cfg.Pipeline.ChunkingEnabled,
		SystemPrompt:    systemPrompt,
		OnProgress: func(p pipeline.Progress) {
			if p.State == pipeline.StateCalling && p.TotalChunks > 0 {
				logger.Info("Translating chunk", "index", p.ChunkIndex+1, "total", p.TotalChunks)
			}
		},
	})
}

// writeDocumentOutput writes data to path, asking before replacing an
// existing file. It reports whether anything was written.
func writeDocumentOutput(path string, data []byte, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		confirmed, err := confirm.DefaultConfirmer().ConfirmOverwrite(path, force)
		if err != nil {
			return false, err
		}
		if !confirmed {
			logger.Warn("Skipped existing file", "path", path)
			return false, nil
		}
	}
	if err := files.AtomicWrite(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Cancellation requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
