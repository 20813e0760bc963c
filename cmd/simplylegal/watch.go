package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/watcher"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	configPath  string
	logFilePath string
	debug       bool
}

func newWatchCmd() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and translate documents as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(&opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addRuntimeFlags(cmd, &opts.configPath, &opts.logFilePath, &opts.debug)
	return cmd
}

func runWatch(opts *watchOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, opts.logFilePath, opts.debug); err != nil {
		return err
	}

	fillProviderKeys(cfg)

	ctx, stop := signalContext()
	defer stop()

	client, err := buildProvider(ctx, cfg)
	if err != nil {
		return err
	}

	// A missing speech binary would fail every document, so the watcher
	// runs without audio instead.
	synth := buildSynthesizer(cfg)
	if synth != nil {
		if avail, ok := synth.(interface{ Available() bool }); ok && !avail.Available() {
			logger.Warn("Processing without audio", "binary", cfg.Speech.Binary)
			synth = nil
		}
	}

	pipe, err := buildPipeline(cfg, client, synth)
	if err != nil {
		return err
	}
	proc, err := watcher.NewProcessor(pipe, cfg.Watch.Output, cfg.Watch.Archived)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Watch.Input, 0755); err != nil {
		return fmt.Errorf("creating input directory %s: %w", cfg.Watch.Input, err)
	}

	w, err := watcher.New(watcher.Config{
		InputDir:      cfg.Watch.Input,
		MaxConcurrent: cfg.Watch.MaxConcurrent,
		SettleDelay:   time.Duration(cfg.Watch.SettleDelayMS) * time.Millisecond,
		Handler:       proc.Process,
	})
	if err != nil {
		return err
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
