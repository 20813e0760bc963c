package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/simplylegal/simplylegal/internal/extract"
	"github.com/simplylegal/simplylegal/internal/files"
	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/pipeline"
	"github.com/simplylegal/simplylegal/internal/report"
)

// Processor turns one dropped document into its translated outputs:
// plain text, audio when the pipeline synthesizes it, and a report.
type Processor struct {
	pipeline    *pipeline.Pipeline
	outputDir   string
	archivedDir string
}

// NewProcessor creates the output and archive directories if needed.
func NewProcessor(p *pipeline.Pipeline, outputDir, archivedDir string) (*Processor, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	for _, dir := range []string{outputDir, archivedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return &Processor{
		pipeline:    p,
		outputDir:   outputDir,
		archivedDir: archivedDir,
	}, nil
}

// Process translates the document at path and writes its outputs. The
// original is archived only after every output landed; a failed
// document stays in the input directory.
func (p *Processor) Process(ctx context.Context, path string) error {
	start := time.Now()
	base := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", base, err)
	}
	doc, err := extract.FromUpload(base, data)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", base, err)
	}

	result, err := p.pipeline.Process(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("translating %s: %w", base, err)
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))

	textPath, err := files.AtomicWriteExclusive(filepath.Join(p.outputDir, stem+".txt"), []byte(result.Text), 0644)
	if err != nil {
		return fmt.Errorf("writing text output: %w", err)
	}

	if len(result.Audio) > 0 {
		if _, err := files.AtomicWriteExclusive(filepath.Join(p.outputDir, stem+".wav"), result.Audio, 0644); err != nil {
			return fmt.Errorf("writing audio output: %w", err)
		}
	}

	reportData, err := report.Build(stem, result.Text, result.RedFlags)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if _, err := files.AtomicWriteExclusive(filepath.Join(p.outputDir, stem+".docx"), reportData, 0644); err != nil {
		return fmt.Errorf("writing report output: %w", err)
	}

	if err := p.archive(path); err != nil {
		logger.Warn("Archiving original failed", "file", base, "error", err)
	}

	logger.Info("Document processed",
		"file", base,
		"output", textPath,
		"chunk_count", result.ChunksProcessed,
		"flag_count", len(result.RedFlags),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func (p *Processor) archive(path string) error {
	dest := filepath.Join(p.archivedDir, filepath.Base(path))
	safe, _, err := files.SafePath(dest)
	if err != nil {
		return err
	}
	return os.Rename(path, safe)
}
