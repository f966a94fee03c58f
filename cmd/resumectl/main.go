// Command resumectl analyzes resume files locally without the HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/resumeiq/internal/adapter/observability"
	"github.com/fairyhunter13/resumeiq/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "ResumeIQ command line tools",
	Long:  "resumectl runs the ResumeIQ extraction and analysis pipeline on local files and inspects the skill catalog.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// Logs go to stderr so stdout stays valid JSON.
		slog.SetDefault(observability.NewLogger(os.Stderr, cfg))
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
