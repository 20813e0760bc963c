// Package pipeline orchestrates a document translation end to end:
// chunking, per-chunk model calls, output normalization, merging and
// optional speech synthesis.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/chunker"
	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/normalize"
	"github.com/simplylegal/simplylegal/internal/provider"
	"github.com/simplylegal/simplylegal/internal/speech"
)

// DefaultMaxChunkSize bounds the text sent in a single model call.
const DefaultMaxChunkSize = 1000

// State identifies where a run currently is.
type State int

const (
	StateIdle State = iota
	StateChunking
	StateCalling
	StateNormalizing
	StateMerging
	StateSynthesizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChunking:
		return "chunking"
	case StateCalling:
		return "calling"
	case StateNormalizing:
		return "normalizing"
	case StateMerging:
		return "merging"
	case StateSynthesizing:
		return "synthesizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress reports a state transition during Process.
type Progress struct {
	State State
	// ChunkIndex is the zero-based chunk being worked on, or -1 for
	// states that are not tied to a chunk.
	ChunkIndex  int
	TotalChunks int
}

// Config wires a Pipeline. Provider is required; everything else has
// working defaults.
type Config struct {
	Provider provider.Client
	// Synthesizer is optional. When nil the result carries no audio.
	Synthesizer speech.Synthesizer
	// MaxChunkSize is measured in grapheme clusters. Zero means
	// DefaultMaxChunkSize.
	MaxChunkSize    int
	ChunkingEnabled bool
	// SystemPrompt replaces DefaultSystemPrompt wholesale when set.
	SystemPrompt string
	// OnProgress, when set, is called with every state transition.
	OnProgress func(Progress)
}

// Result is a completed run.
type Result struct {
	Text            string
	RedFlags        []normalize.RedFlag
	ChunksProcessed int
	// Audio is WAV audio of Text, nil when no synthesizer is configured.
	Audio []byte
}

// ChunkError marks which chunk aborted a run.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// Pipeline is an immutable orchestrator. All mutable state lives in a
// per-call run value, so a single Pipeline may serve concurrent
// Process calls.
type Pipeline struct {
	cfg          Config
	systemPrompt string
}

// New validates cfg and builds a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.MaxChunkSize < 0 {
		return nil, fmt.Errorf("maxChunkSize must be 0 or greater, got %d", cfg.MaxChunkSize)
	}
	if cfg.MaxChunkSize == 0 {
		cfg.MaxChunkSize = DefaultMaxChunkSize
	}
	prompt := cfg.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultSystemPrompt
	}
	return &Pipeline{cfg: cfg, systemPrompt: prompt}, nil
}

// run carries the mutable state of one Process call.
type run struct {
	p     *Pipeline
	state State
	total int
	parts []string
	flags []normalize.RedFlag
}

func (r *run) setState(s State, chunkIndex int) {
	r.state = s
	if r.p.cfg.OnProgress != nil {
		r.p.cfg.OnProgress(Progress{State: s, ChunkIndex: chunkIndex, TotalChunks: r.total})
	}
}

// Process translates a whole document. Chunks are translated strictly
// in order and any provider failure aborts the run; there are no
// partial results.
func (p *Pipeline) Process(ctx context.Context, document string) (*Result, error) {
	if strings.TrimSpace(document) == "" {
		return nil, apperrors.InvalidInput("Document text must not be empty.")
	}

	r := &run{p: p, state: StateIdle}
	start := time.Now()

	r.setState(StateChunking, -1)
	chunks := chunker.Split(document, p.cfg.MaxChunkSize, p.cfg.ChunkingEnabled)
	r.total = len(chunks)

	logger.Info("Starting translation",
		"backend", p.cfg.Provider.Name(),
		"model", p.cfg.Provider.Model(),
		"chunk_count", len(chunks),
	)

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			r.setState(StateFailed, chunk.Index)
			return nil, err
		}

		r.setState(StateCalling, chunk.Index)
		reply, err := p.cfg.Provider.Complete(ctx, BuildPrompt(p.systemPrompt, chunk.Text))
		if err != nil {
			r.setState(StateFailed, chunk.Index)
			logger.Error("Chunk translation failed", "chunk_index", chunk.Index, "total_chunks", r.total, "error", err)
			return nil, &ChunkError{Index: chunk.Index, Err: err}
		}

		r.setState(StateNormalizing, chunk.Index)
		res := normalize.Normalize(reply)
		r.parts = append(r.parts, res.SimplifiedText)
		r.flags = append(r.flags, res.RedFlags...)
	}

	r.setState(StateMerging, -1)
	text := chunker.Merge(r.parts, chunker.DefaultSeparator)

	var audio []byte
	if p.cfg.Synthesizer != nil {
		r.setState(StateSynthesizing, -1)
		var err error
		audio, err = p.cfg.Synthesizer.Synthesize(ctx, text)
		if err != nil {
			r.setState(StateFailed, -1)
			logger.Error("Speech synthesis failed", "error", err)
			return nil, err
		}
	}

	r.setState(StateDone, -1)
	logger.Info("Translation finished",
		"chunk_count", len(chunks),
		"flag_count", len(r.flags),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	return &Result{
		Text:            text,
		RedFlags:        r.flags,
		ChunksProcessed: len(chunks),
		Audio:           audio,
	}, nil
}
