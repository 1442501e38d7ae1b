package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/pdf2md"
	"github.com/tsawler/pdf2md/internal/config"
	"github.com/tsawler/pdf2md/internal/logging"
	"github.com/tsawler/pdf2md/internal/output"
	"github.com/tsawler/pdf2md/metadata"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf2md -i input.pdf -o output.md",
		Short: "Convert PDF documents to Markdown",
		Long: `pdf2md extracts the text of a PDF document, infers headings and
paragraphs from font sizes and layout, and writes the result as Markdown.

Settings may also come from pdf2md.yaml (in the working directory or
~/.config/pdf2md) and from PDF2MD_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(viper.New(), cmd.Flags(), file)
			if err != nil {
				return invalidInput(err)
			}
			if err := cfg.Validate(); err != nil {
				return invalidInput(err)
			}
			return run(cmd.Context(), cfg, stdout, logging.New(stderr, cfg.Verbose))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringP("input", "i", "", "input PDF file")
	f.StringP("output", "o", "", "output file (format inferred from the extension)")
	f.BoolP("verbose", "v", false, "log progress to stderr")
	f.BoolP("dry-run", "n", false, "print a preview of the document instead of converting it")
	f.String("format", "", "output format: markdown, html or text")
	f.Bool("front-matter", false, "prefix Markdown output with YAML front matter")
	f.Int("workers", 0, "pages decoded in parallel (0 uses every CPU)")
	f.Duration("timeout", 0, "abort the conversion after this long (0 means no limit)")
	f.String("config", "", "config file (default: ./pdf2md.yaml or ~/.config/pdf2md/pdf2md.yaml)")

	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of pdf2md",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "pdf2md %s\n", version)
		},
	}
}

// run converts cfg.Input. Nothing is written unless the whole conversion
// succeeds.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if cfg.File != "" {
		log.Info("using config file", "path", cfg.File)
	}

	log.Info("reading", "input", cfg.Input)
	data, err := pdf2md.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	conv := pdf2md.New(data).
		Workers(cfg.Workers).
		Logger(log).
		Layout(cfg.Layout())
	if cfg.FrontMatter {
		conv = conv.WithFrontMatter()
	}

	if cfg.DryRun {
		meta, warnings, err := conv.Metadata(ctx)
		if err != nil {
			return err
		}
		logWarnings(log, warnings)
		return metadata.WritePreview(stdout, meta)
	}

	f, err := cfg.OutputFormat()
	if err != nil {
		return invalidInput(err)
	}
	out, warnings, err := conv.Render(ctx, f)
	if err != nil {
		return err
	}
	logWarnings(log, warnings)

	if err := output.WriteFile(cfg.Output, out); err != nil {
		return &pdf2md.Error{Kind: pdf2md.KindIO, Op: "write", Err: err}
	}
	log.Info("wrote output", "path", cfg.Output, "format", f.String(), "bytes", len(out))
	return nil
}

func logWarnings(log *slog.Logger, warnings []pdf2md.Warning) {
	for _, w := range warnings {
		log.Warn(w.Message, "page", w.Page, "kind", w.Kind.String())
	}
}

func invalidInput(err error) error {
	var e *pdf2md.Error
	if errors.As(err, &e) {
		return err
	}
	return &pdf2md.Error{Kind: pdf2md.KindInvalidInput, Err: err}
}
