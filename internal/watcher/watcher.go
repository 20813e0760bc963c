// Package watcher runs the drop-folder mode: documents placed in an
// input directory are translated and their outputs written alongside,
// with the originals archived.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/simplylegal/simplylegal/internal/logger"
)

// HandlerFunc processes one dropped document.
type HandlerFunc func(ctx context.Context, path string) error

// Config wires a Watcher. Handler is required; the rest has working
// defaults.
type Config struct {
	InputDir string
	// MaxConcurrent bounds how many documents are processed at once.
	MaxConcurrent int64
	// SettleDelay is how long to wait after a create event before
	// reading, so the writer can finish.
	SettleDelay time.Duration
	Handler     HandlerFunc
}

type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
}

// New validates cfg and starts watching the input directory. The
// returned Watcher does nothing until Run is called.
func New(cfg Config) (*Watcher, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(cfg.InputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", cfg.InputDir, err)
	}

	return &Watcher{
		cfg:     cfg,
		watcher: fw,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
	}, nil
}

// Run watches until ctx is canceled, then waits for in-flight documents
// to finish before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	logger.Info("Watching for documents",
		"dir", w.cfg.InputDir,
		"max_concurrent", w.cfg.MaxConcurrent,
	)

	// Documents already sitting in the input directory are picked up
	// once at start; fsnotify only reports new ones.
	w.sweepExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Waiting for in-flight documents to finish")
			w.wg.Wait()
			logger.Info("Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !supportedDocument(event.Name) {
				logger.Debug("Ignoring unsupported file", "file", filepath.Base(event.Name))
				continue
			}
			logger.Info("New document detected", "file", filepath.Base(event.Name))
			if !w.settle(ctx) {
				continue
			}
			w.start(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logger.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) sweepExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.cfg.InputDir)
	if err != nil {
		logger.Warn("Input directory sweep failed", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.cfg.InputDir, entry.Name())
		if !supportedDocument(path) {
			continue
		}
		logger.Info("Found existing document", "file", entry.Name())
		w.start(ctx, path)
	}
}

// settle waits out the configured delay so a file being written when
// its create event fires is complete before processing.
func (w *Watcher) settle(ctx context.Context) bool {
	select {
	case <-time.After(w.cfg.SettleDelay):
		return true
	case <-ctx.Done():
		return false
	}
}

// start runs the handler for one document under the concurrency bound.
// It blocks while all permits are taken, which also pauses event intake.
func (w *Watcher) start(ctx context.Context, path string) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.Release(1)
		if err := w.cfg.Handler(ctx, path); err != nil {
			logger.Error("Processing failed", "file", filepath.Base(path), "error", err)
		}
	}()
}

func supportedDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}
