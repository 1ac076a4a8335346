package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerissecure/compose"
	"github.com/aerissecure/compose/fileservice"
)

var (
	remoteCmdLine string
	remoteURL     string
	remoteTool    string
	remoteOut     string
	remoteTimeout time.Duration
	remotePadRows bool
)

var remoteCmd = &cobra.Command{
	Use:   "remote [input file]",
	Short: "Render an input file through a remote file service",
	Long: `Sends the content blocks of the input file to a document file
service over JSON-RPC and asks it to write the output. The service is
either a subprocess started from --cmd and spoken to over stdio, or an
HTTP endpoint given by --url.

Examples:
  compose remote report.json --cmd "python file_service.py" --out /srv/report.docx
  compose remote data.md --url http://localhost:8700/rpc --tool create_excel --out data.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runRemote,
}

func init() {
	remoteCmd.Flags().StringVar(&remoteCmdLine, "cmd", "", "Command line starting the file service subprocess")
	remoteCmd.Flags().StringVar(&remoteURL, "url", "", "HTTP endpoint of the file service")
	remoteCmd.Flags().StringVar(&remoteTool, "tool", fileservice.ToolCreateWord, "Tool to invoke: create_word or create_excel")
	remoteCmd.Flags().StringVar(&remoteOut, "out", "", "Destination path, as seen by the service (required)")
	remoteCmd.Flags().DurationVar(&remoteTimeout, "timeout", 60*time.Second, "Per-call timeout")
	remoteCmd.Flags().BoolVar(&remotePadRows, "pad-rows", false, "Validate with short-row padding enabled")
	_ = remoteCmd.MarkFlagRequired("out")
	remoteCmd.MarkFlagsMutuallyExclusive("cmd", "url")
	remoteCmd.MarkFlagsOneRequired("cmd", "url")
}

func runRemote(cmd *cobra.Command, args []string) error {
	if remoteTool != fileservice.ToolCreateWord && remoteTool != fileservice.ToolCreateExcel {
		return fmt.Errorf("unknown tool %q (want %s or %s)",
			remoteTool, fileservice.ToolCreateWord, fileservice.ToolCreateExcel)
	}

	blocks, err := loadBlocks(args[0])
	if err != nil {
		return err
	}

	// Validate locally before shipping the blocks out, so bad content
	// fails fast with a useful error instead of a remote one.
	opts := compose.DefaultOptions()
	opts.PadShortRows = remotePadRows
	if _, err := compose.Render(blocks, opts); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()

	var rpc fileservice.Caller
	if remoteCmdLine != "" {
		proc, err := fileservice.StartProcess(ctx, remoteCmdLine, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := proc.Close(); err != nil {
				logger.Warn("file service shutdown", zap.Error(err))
			}
		}()
		rpc = proc
	} else {
		rpc = fileservice.NewHTTPClient(remoteURL, remoteTimeout, logger)
	}

	svc := fileservice.NewService(rpc)
	res, err := svc.CallTool(ctx, remoteTool, remoteOut, blocks)
	if err != nil {
		return err
	}
	if res.IsError {
		return fmt.Errorf("service reported failure: %s", res.Text())
	}

	logger.Info("remote document created",
		zap.String("tool", remoteTool),
		zap.String("path", remoteOut))
	fmt.Fprintln(cmd.OutOrStdout(), res.Text())
	return nil
}
