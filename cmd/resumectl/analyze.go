package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/resumeiq/internal/app"
	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/observability"
	"github.com/fairyhunter13/resumeiq/internal/usecase"
)

var (
	analyzeOffline bool
	analyzePretty  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract and analyze a resume file",
	Long:  "Extract text from a pdf, docx, doc, txt or image resume and print the analysis JSON returned by the upload endpoint.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFrom(cmd.Context())
		if err != nil {
			return err
		}
		return runAnalyze(cmd.Context(), cfg, args[0], analyzeOffline, analyzePretty, cmd.OutOrStdout())
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "Skip the job search, language model, Tika and Redis collaborators")
	analyzeCmd.Flags().BoolVar(&analyzePretty, "pretty", false, "Indent the JSON output")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, cfg config.Config, path string, offline, pretty bool, out io.Writer) error {
	// #nosec G304 -- path is supplied by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var opts []app.BuildOption
	if offline {
		opts = append(opts, app.WithOffline())
	}
	c, err := app.Build(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	text, err := c.Uploads.ExtractText(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}
	analysis, err := c.Analyzer.Analyze(observability.WithAttrs(ctx, "file", path), text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(usecase.BuildResponse(analysis))
}
