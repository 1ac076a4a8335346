// Command compose renders structured content blocks into document files.
// Inputs are JSON block lists or lightweight markup; outputs are Word
// documents, Excel workbooks, or HTML, written locally or through a remote
// file service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "compose",
	Short: "Render content blocks into Word, Excel, and HTML documents",
	Long: `compose turns structured content (JSON block lists or a small markup
format) into finished documents.

Blocks are headings, paragraphs, bullet and numbered lists, tables, and
page breaks, with optional styling. The same content renders to .docx,
.xlsx, or .html, either locally or by calling an out-of-process file
service over JSON-RPC.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
