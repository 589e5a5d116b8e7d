package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Cherpy.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cherpy",
		Short: "Crawl a website and answer questions about it",
		Long: `Cherpy crawls a single website, extracts visible text, OCR'd image text,
and PDF contents, then answers configured questions about the site using
an OpenAI-compatible completion API.

Crawl results are written as structured JSON and flattened text; answers
are appended to a report file. Set the ` + "`CHERPY_API_KEY`" + ` environment
variable to enable question answering.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
