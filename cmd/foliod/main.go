package main

import (
	"fmt"
	"os"

	"github.com/asingh-dev/folio-assistant/internal/cli"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "foliod",
		Short: "Portfolio assistant daemon",
		Long: `foliod runs the portfolio RAG assistant: an offline index build over the
knowledge base and a streaming chat API grounded in it.

Environment variables:
  FOLIO_OPENAI_API_KEY   OpenAI API key (required)
  FOLIO_KB_DIR           Knowledge base directory (default: kb)
  FOLIO_INDEX_PATH       Index artifact path (default: public/kb_index.json)`,
		Version: version,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IndexCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
