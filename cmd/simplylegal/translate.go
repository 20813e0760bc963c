package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/simplylegal/simplylegal/internal/extract"
	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/normalize"
	"github.com/simplylegal/simplylegal/internal/pipeline"
	"github.com/simplylegal/simplylegal/internal/provider"
	"github.com/simplylegal/simplylegal/internal/report"
	"github.com/simplylegal/simplylegal/internal/speech"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	configPath  string
	audioPath   string
	reportPath  string
	yes         bool
	logFilePath string
	debug       bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <document> [output.txt]",
		Short: "Translate one document to plain language",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("input file is required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVar(&opts.audioPath, "audio", "", "Write spoken audio of the result to this .wav file")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a formatted .docx report to this file")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite existing output files without asking")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if len(args) < 1 {
		return fmt.Errorf("input file is required")
	}
	input := args[0]
	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	}
	if len(args) > 2 {
		fmt.Fprintf(os.Stderr, "Warning: expected at most 2 arguments but got %d. Did you forget quotes around file paths?\n", len(args))
		fmt.Fprintf(os.Stderr, "  Using input: %s\n", input)
		fmt.Fprintf(os.Stderr, "  Using output: %s\n", outputPath)
	}
	if err := validateTranslatePaths(input, outputPath, opts); err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, opts.logFilePath, opts.debug); err != nil {
		return err
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	logger.Info("Document loaded", "file", doc.Filename, "type", doc.FileType, "chars", doc.CharCount)

	fillProviderKeys(cfg)

	ctx, stop := signalContext()
	defer stop()

	client, err := buildProvider(ctx, cfg)
	if err != nil {
		return err
	}

	var synth speech.Synthesizer
	if opts.audioPath != "" {
		engine := speech.NewEngine(nil, cfg.Speech.Binary, cfg.Speech.Voice, cfg.Speech.Rate,
			time.Duration(cfg.Speech.TimeoutSecs)*time.Second)
		if !engine.Available() {
			return fmt.Errorf("speech binary %q not found; install it or adjust speech.binary", cfg.Speech.Binary)
		}
		synth = engine
	}

	pipe, err := buildPipeline(cfg, client, synth)
	if err != nil {
		return err
	}

	startTime := time.Now()
	result, err := pipe.Process(ctx, doc.Text)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Translation canceled", "error", err)
			return nil
		}
		return err
	}

	// Keep stdout clean for the translated text when no output file
	// was given; the flag summary and stats go to stderr in that case.
	infoW := cmd.OutOrStdout()
	if outputPath == "" {
		infoW = cmd.ErrOrStderr()
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	} else {
		if _, err := writeDocumentOutput(outputPath, []byte(result.Text+"\n"), opts.yes); err != nil {
			return err
		}
		logger.Info("Wrote plain-language text", "path", outputPath)
	}

	if opts.audioPath != "" && len(result.Audio) > 0 {
		if _, err := writeDocumentOutput(opts.audioPath, result.Audio, opts.yes); err != nil {
			return err
		}
		logger.Info("Wrote audio", "path", opts.audioPath, "bytes", len(result.Audio))
	}

	if opts.reportPath != "" {
		data, err := report.Build(reportTitle(input), result.Text, result.RedFlags)
		if err != nil {
			return err
		}
		if _, err := writeDocumentOutput(opts.reportPath, data, opts.yes); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", opts.reportPath)
	}

	printRedFlags(infoW, result.RedFlags)
	printRunStats(infoW, client, result, time.Since(startTime))
	return nil
}

// readDocument loads the input document, "-" meaning stdin. Stdin is
// always treated as plain text.
func readDocument(input string) (extract.Document, error) {
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return extract.Document{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return extract.FromUpload("stdin.txt", data)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return extract.Document{}, fmt.Errorf("failed to read %s: %w", input, err)
	}
	return extract.FromUpload(filepath.Base(input), data)
}

func reportTitle(input string) string {
	if input == "-" {
		return "Plain-Language Summary"
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printRedFlags(w io.Writer, flags []normalize.RedFlag) {
	if len(flags) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Red Flags (%d) ---\n", len(flags))
	for i, f := range flags {
		fmt.Fprintf(w, "%d. [%s] %q\n", i+1, strings.ToUpper(string(f.Severity)), f.Quote)
		fmt.Fprintf(w, "   Risk: %s\n", f.Risk)
		if f.WorstCase != "" {
			fmt.Fprintf(w, "   Worst case: %s\n", f.WorstCase)
		}
	}
}

func printRunStats(w io.Writer, client provider.Client, result *pipeline.Result, duration time.Duration) {
	fmt.Fprintln(w, "\n--- Execution Stats ---")
	fmt.Fprintf(w, "Time: %s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Backend: %s (%s)\n", client.Name(), client.Model())
	fmt.Fprintf(w, "Chunks: %d\n", result.ChunksProcessed)
	fmt.Fprintf(w, "Red flags: %d\n", len(result.RedFlags))
}

var supportedInputExtensions = map[string]struct{}{
	".txt":  {},
	".pdf":  {},
	".docx": {},
}

const supportedInputExtensionsLabel = ".txt, .pdf, .docx"

func validateTranslatePaths(input, output string, opts *translateOptions) error {
	if input != "-" {
		ext := strings.ToLower(filepath.Ext(input))
		if _, ok := supportedInputExtensions[ext]; !ok {
			if ext == "" {
				ext = "(none)"
			}
			return fmt.Errorf("unsupported input extension %q (supported: %s)", ext, supportedInputExtensionsLabel)
		}
	}
	if output != "" && !strings.EqualFold(filepath.Ext(output), ".txt") {
		return fmt.Errorf("unsupported output extension %q (the plain-language text is written as .txt)", filepath.Ext(output))
	}
	if opts.audioPath != "" && !strings.EqualFold(filepath.Ext(opts.audioPath), ".wav") {
		return fmt.Errorf("audio output must end in .wav, got %q", filepath.Ext(opts.audioPath))
	}
	if opts.reportPath != "" && !strings.EqualFold(filepath.Ext(opts.reportPath), ".docx") {
		return fmt.Errorf("report output must end in .docx, got %q", filepath.Ext(opts.reportPath))
	}
	return nil
}
