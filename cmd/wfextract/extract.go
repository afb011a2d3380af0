package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/leofalp/wfextract/core/pipeline"
	"github.com/leofalp/wfextract/internal/config"
	"github.com/leofalp/wfextract/internal/render"
	"github.com/leofalp/wfextract/providers/observability"
	"github.com/leofalp/wfextract/providers/observability/promobs"
	"github.com/leofalp/wfextract/providers/source"
)

// Exit codes per pipeline error kind.
var kindExitCodes = map[string]int{
	pipeline.KindStream:   3,
	pipeline.KindNoRegion: 4,
	pipeline.KindSyntax:   5,
	pipeline.KindSchema:   6,
}

type extractOptions struct {
	marker      string
	label       string
	format      string
	chunkSize   int
	lenient     bool
	markdown    bool
	quiet       bool
	metricsFile string
}

func newExtractCmd(globals *globalOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract thoughts and the workflow document from a model response",
		Long: `Reads a model response from file (or stdin), echoes the thoughts to stderr
as they arrive and prints {"thoughts","document","degraded","strategy"} as
JSON on stdout.

Exit codes: 3 stream failure, 4 no structured region, 5 JSON syntax error,
6 schema repair error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := globals.load()
			if err != nil {
				return err
			}
			return runExtract(cmd, args, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.marker, "marker", pipeline.DefaultMarker, "sentinel marker separating thoughts from payload (empty disables)")
	flags.StringVar(&opts.label, "label", pipeline.DefaultLabelPrefix, "label prefix stripped from the thoughts")
	flags.StringVarP(&opts.format, "format", "f", string(source.FormatText), "input framing: text, sse or ndjson")
	flags.IntVar(&opts.chunkSize, "chunk-size", source.DefaultChunkSize, "read size for text input")
	flags.BoolVar(&opts.lenient, "lenient", false, "repair JSON syntax errors (result is marked degraded)")
	flags.BoolVar(&opts.markdown, "markdown-thoughts", false, "convert HTML in the thoughts to Markdown")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not echo thoughts while streaming")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")

	return cmd
}

// applyFlags overrides config values with flags the user set explicitly.
func (o *extractOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("marker") {
		cfg.Marker = o.marker
	}
	if flags.Changed("label") {
		cfg.LabelPrefix = o.label
	}
	if flags.Changed("lenient") {
		cfg.Lenient = o.lenient
	}
}

func runExtract(cmd *cobra.Command, args []string, cfg *config.Config, opts *extractOptions) error {
	opts.applyFlags(cmd, cfg)

	format, err := source.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	input := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		input = file
	}

	pipelineOpts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}

	observer := cfg.Observer(cmd.ErrOrStderr())
	var registry *prometheus.Registry
	if opts.metricsFile != "" {
		registry = prometheus.NewRegistry()
		observer = promobs.Wrap(observer, promobs.New(registry, promobs.WithNamespace(cfg.Metrics.Namespace)))
	}
	pipelineOpts = append(pipelineOpts, pipeline.WithObserver(observer))

	onThought := func(string) {}
	printer := render.NewThoughtPrinter(cmd.ErrOrStderr(), len(cfg.Marker)-1)
	if !opts.quiet {
		onThought = printer.Update
	}

	result, runErr := pipeline.Run(cmd.Context(), source.FromReader(format, input, opts.chunkSize), onThought, pipelineOpts...)

	if !opts.quiet {
		final := ""
		if result != nil {
			final = result.Thoughts
		}
		printer.Finish(final)
	}

	if registry != nil {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
			observer.Warn(cmd.Context(), "failed to write metrics file", observability.Error(err))
		}
	}

	if runErr != nil {
		return extractError(cmd.ErrOrStderr(), runErr)
	}

	if opts.markdown {
		thoughts, err := render.Markdown(result.Thoughts)
		if err != nil {
			return err
		}
		result.Thoughts = thoughts
	}

	return writeJSON(cmd.OutOrStdout(), result)
}

// extractError reports the failed text on stderr and maps the error kind to
// an exit code.
func extractError(stderr io.Writer, err error) error {
	kind := pipeline.ErrorKind(err)
	if raw, ok := pipeline.RawText(err); ok && raw != "" {
		fmt.Fprintf(stderr, "--- unparsed text (%s) ---\n%s\n---\n", kind, raw)
	}

	code, ok := kindExitCodes[kind]
	if !ok {
		code = 1
	}
	return &exitError{code: code, err: err}
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}
