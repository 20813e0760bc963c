package main

import (
	"github.com/simplylegal/simplylegal/internal/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	configPath  string
	logFilePath string
	debug       bool
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(&opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addRuntimeFlags(cmd, &opts.configPath, &opts.logFilePath, &opts.debug)
	return cmd
}

func runServe(opts *serveOptions) error {
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

	srv, err := server.New(cfg, client, buildSynthesizer(cfg))
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
