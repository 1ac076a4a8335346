package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aerissecure/compose"
	"github.com/aerissecure/compose/docx"
	"github.com/aerissecure/compose/htmldoc"
	"github.com/aerissecure/compose/markup"
	"github.com/aerissecure/compose/xlsx"
)

var (
	buildFormat  string
	buildOutput  string
	buildTheme   string
	buildPadRows bool
	buildTitle   string
	buildAuthor  string
	buildWatch   bool
)

var buildCmd = &cobra.Command{
	Use:   "build [input files...]",
	Short: "Render input files into documents locally",
	Long: `Renders each input file into a document. Inputs ending in .md or
.markup are parsed as markup; everything else is decoded as a JSON block
list. The output format comes from --format, or from the extension of
--output when given.

Examples:
  compose build report.json -o report.docx
  compose build notes.md --format xlsx
  compose build *.json --format html --theme corporate.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "", "Output format: docx, xlsx, or html (default from output extension, else docx)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output path (single input only)")
	buildCmd.Flags().StringVar(&buildTheme, "theme", "", "YAML theme file overriding style defaults")
	buildCmd.Flags().BoolVar(&buildPadRows, "pad-rows", false, "Pad short table rows with empty cells instead of failing")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "Document title property")
	buildCmd.Flags().StringVar(&buildAuthor, "author", "", "Document author property")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "Rebuild outputs when input files change")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output only applies to a single input, got %d", len(args))
	}

	format, err := detectFormat(buildFormat, buildOutput)
	if err != nil {
		return err
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	if err := buildAll(cmd, args, format, opts); err != nil {
		return err
	}
	if buildWatch {
		return watchAndRebuild(cmd, args, format, opts)
	}
	return nil
}

// buildAll renders every input concurrently.
func buildAll(cmd *cobra.Command, inputs []string, format string, opts compose.Options) error {
	jobID := uuid.NewString()
	log := logger.With(zap.String("job_id", jobID), zap.String("format", format))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(4)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			out := outputPath(input, buildOutput, format)
			if err := buildOne(input, out, format, opts); err != nil {
				log.Error("build failed", zap.String("input", input), zap.Error(err))
				return fmt.Errorf("%s: %w", input, err)
			}
			log.Info("document written",
				zap.String("input", input),
				zap.String("output", out))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Debug("build finished",
		zap.Int("inputs", len(inputs)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func buildOne(input, output, format string, opts compose.Options) error {
	blocks, err := loadBlocks(input)
	if err != nil {
		return err
	}
	doc, err := compose.Render(blocks, opts)
	if err != nil {
		return err
	}
	return writeDocument(doc, output, format)
}

// watchAndRebuild re-renders an input whenever it is written to.
func watchAndRebuild(cmd *cobra.Command, inputs []string, format string, opts compose.Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Watch the directory: editors often replace the file on save,
		// which drops a watch on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	logger.Info("watching for changes", zap.Int("inputs", len(inputs)))

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			out := outputPath(ev.Name, buildOutput, format)
			if err := buildOne(ev.Name, out, format, opts); err != nil {
				logger.Error("rebuild failed", zap.String("input", ev.Name), zap.Error(err))
				continue
			}
			logger.Info("rebuilt", zap.String("input", ev.Name), zap.String("output", out))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}

// buildOptions assembles render options from the build flags.
func buildOptions() (compose.Options, error) {
	opts := compose.DefaultOptions()
	opts.PadShortRows = buildPadRows
	opts.Properties.Title = buildTitle
	opts.Properties.Author = buildAuthor
	if buildTheme != "" {
		theme, err := compose.LoadThemeFile(buildTheme)
		if err != nil {
			return opts, fmt.Errorf("theme: %w", err)
		}
		opts.Theme = theme
	}
	return opts, nil
}

// loadBlocks reads content blocks from a file. Markup extensions are
// parsed as markup, everything else as a JSON block list.
func loadBlocks(path string) ([]compose.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markup":
		return markup.ParseString(string(data))
	default:
		return decodeBlockJSON(data)
	}
}

// decodeBlockJSON accepts either a bare block array or an object with a
// "content" field, which is the shape remote tool calls use.
func decodeBlockJSON(data []byte) ([]compose.Block, error) {
	var wrapper struct {
		Content []compose.Block `json:"content"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Content != nil {
		return wrapper.Content, nil
	}
	return compose.DecodeBlocks(data)
}

// detectFormat resolves the output format from the flag or the output
// file's extension, defaulting to docx.
func detectFormat(format, output string) (string, error) {
	if format == "" && output != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = "docx"
	}
	switch format {
	case "docx", "xlsx", "html":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want docx, xlsx, or html)", format)
	}
}

// outputPath derives the output file name from the input when no explicit
// output was given.
func outputPath(input, output, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func writeDocument(doc *compose.Document, path, format string) error {
	switch format {
	case "docx":
		return docx.WriteFile(doc, path)
	case "xlsx":
		return xlsx.WriteFile(doc, path)
	case "html":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return htmldoc.Write(doc, f)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
