package speech

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/executor"
	"github.com/simplylegal/simplylegal/internal/logger"
)

const (
	DefaultBinary = "espeak-ng"
	DefaultVoice  = "en-us"
	// DefaultRate is espeak-ng's native speaking rate in words per minute.
	DefaultRate    = 175
	DefaultTimeout = 60 * time.Second
)

// Engine synthesizes speech by shelling out to an espeak-ng compatible
// binary. Text travels over stdin and the WAV stream comes back on
// stdout, so document content never touches the filesystem.
type Engine struct {
	exec    executor.Executor
	binary  string
	voice   string
	rate    int
	timeout time.Duration
}

// NewEngine builds an Engine. Zero values fall back to the espeak-ng
// defaults above.
func NewEngine(exe executor.Executor, binary, voice string, rate int, timeout time.Duration) *Engine {
	if exe == nil {
		exe = executor.New()
	}
	if binary == "" {
		binary = DefaultBinary
	}
	if voice == "" {
		voice = DefaultVoice
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{exec: exe, binary: binary, voice: voice, rate: rate, timeout: timeout}
}

// Available reports whether the synthesizer binary resolves on PATH.
func (e *Engine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Synthesize renders text as WAV audio.
func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Synthesis(errors.New("no text to speak"))
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{"--stdout", "--stdin", "-v", e.voice, "-s", strconv.Itoa(e.rate)}
	start := time.Now()
	audio, err := e.exec.Execute(ctx, strings.NewReader(text), e.binary, args...)
	if err != nil {
		return nil, apperrors.Synthesis(err)
	}
	if len(audio) == 0 {
		return nil, apperrors.Synthesis(errors.New("synthesizer produced no audio"))
	}

	logger.Debug("Speech synthesized", "bytes", len(audio), "elapsed", time.Since(start).Round(time.Millisecond).String())
	return audio, nil
}
